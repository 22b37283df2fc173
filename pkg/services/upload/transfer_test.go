package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportBody = `{"status":"ok","totals":[{"phone_number":"+79991112233","client_name":"Ivan","calls_count":3,"total_cost_kop":15050}],"calls":[]}`

func startFile(t *testing.T, u *Uploader, url, content string) *Transfer {
	t.Helper()
	f := File{
		Name:    "cdr.csv",
		Size:    int64(len(content)),
		Content: strings.NewReader(content),
	}
	return u.Start(context.Background(), url, "file", f)
}

func drain(t *testing.T, tr *Transfer) ([]Progress, Outcome) {
	t.Helper()

	var events []Progress
	for ev := range tr.Progress() {
		events = append(events, ev)
	}

	out, ok := <-tr.Done()
	require.True(t, ok, "expected exactly one terminal outcome")

	_, open := <-tr.Done()
	assert.False(t, open, "done must be closed after the terminal outcome")

	return events, out
}

func TestUploader_Success(t *testing.T) {
	content := strings.Repeat("start,end,from,to\n", 64)

	var (
		gotField   bool
		gotName    string
		gotContent []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		gotField = true
		gotName = hdr.Filename
		gotContent, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reportBody))
	}))
	defer srv.Close()

	tr := startFile(t, NewUploader(srv.Client()), srv.URL, content)
	events, out := drain(t, tr)

	require.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Positive(t, out.Elapsed)

	require.NotNil(t, out.Report)
	assert.Equal(t, "ok", out.Report.Status)
	require.Len(t, out.Report.Totals, 1)
	assert.Equal(t, "+79991112233", out.Report.Totals[0].PhoneNumber)
	assert.Equal(t, int64(15050), out.Report.Totals[0].TotalCostKop)

	assert.True(t, gotField, "server never saw the multipart field")
	assert.Equal(t, "cdr.csv", gotName)
	assert.Equal(t, content, string(gotContent))

	require.NotEmpty(t, events)
	var prev int64
	for _, ev := range events {
		assert.Equal(t, events[0].Total, ev.Total)
		assert.GreaterOrEqual(t, ev.Loaded, prev, "progress must be non-decreasing")
		assert.LessOrEqual(t, ev.Loaded, ev.Total)
		prev = ev.Loaded
	}
	assert.Equal(t, events[0].Total, events[len(events)-1].Loaded,
		"final progress event must account for the whole body")
}

func TestUploader_LenientBodyParsing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "<html>ok</html>"},
		{name: "wrong shape", body: `[1,2,3]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			tr := startFile(t, NewUploader(srv.Client()), srv.URL, "x")
			_, out := drain(t, tr)

			require.Equal(t, OutcomeSuccess, out.Kind)
			assert.Nil(t, out.Report, "unparsable body must degrade to nil, not fail")
		})
	}
}

func TestUploader_ProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"load_tariffs_failed"}}`))
	}))
	defer srv.Close()

	tr := startFile(t, NewUploader(srv.Client()), srv.URL, "bad")
	_, out := drain(t, tr)

	require.Equal(t, OutcomeProtocolError, out.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, out.StatusCode)
	assert.Contains(t, string(out.Body), "load_tariffs_failed")
	assert.Nil(t, out.Report)
}

func TestUploader_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := startFile(t, NewUploader(nil), url, "x")
	_, out := drain(t, tr)

	require.Equal(t, OutcomeTransportError, out.Kind)
	assert.Error(t, out.Err)
	assert.Zero(t, out.StatusCode)
}

func TestTransfer_Cancel(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	f := File{Name: "big.csv", Size: 4, Content: strings.NewReader("abcd")}
	tr := NewUploader(srv.Client()).Start(context.Background(), srv.URL, "file", f)
	tr.Cancel()

	select {
	case out := <-tr.Done():
		assert.Equal(t, OutcomeTransportError, out.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled transfer never settled")
	}
}

func TestMultipartLength(t *testing.T) {
	content := "a,b,c\n1,2,3\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sample.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	got := multipartLength(mw.Boundary(), "file", "sample.csv", int64(len(content)))
	assert.Equal(t, int64(buf.Len()), got)
}
