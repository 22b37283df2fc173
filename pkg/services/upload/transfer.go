package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/telco-tools/cdr-uplink/pkg/models/api"
)

// File is an acquired upload source. Size must be known up front so progress
// events carry a computable total.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Progress is one observation of the transfer: bytes of the request body
// handed to the transport so far, against the total body length.
type Progress struct {
	Loaded int64
	Total  int64
}

type OutcomeKind int

const (
	// OutcomeNone: no transfer took place (e.g. an empty selection).
	OutcomeNone OutcomeKind = iota
	// OutcomeSuccess: the request completed with a 2xx status.
	OutcomeSuccess
	// OutcomeProtocolError: the request completed with a non-2xx status.
	OutcomeProtocolError
	// OutcomeTransportError: the request never completed.
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeSuccess:
		return "success"
	case OutcomeProtocolError:
		return "protocol_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal event of a Transfer.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       []byte
	Report     *api.TariffReport // lenient parse of Body, success only
	Err        error
	Elapsed    time.Duration
}

// Transfer is a handle to one in-flight upload. Progress delivers a finite,
// monotonically increasing event stream and is closed before the single
// Outcome is delivered on Done; Done itself is closed after that delivery.
type Transfer struct {
	progress chan Progress
	done     chan Outcome
	cancel   context.CancelFunc
}

func (t *Transfer) Progress() <-chan Progress { return t.progress }

func (t *Transfer) Done() <-chan Outcome { return t.done }

// Cancel aborts the transfer; the terminal event becomes a transport error.
func (t *Transfer) Cancel() { t.cancel() }

// Uploader performs single-field multipart POST uploads.
type Uploader struct {
	client *http.Client
}

func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client}
}

// Start launches the upload and returns immediately with its handle.
func (u *Uploader) Start(ctx context.Context, url, field string, f File) *Transfer {
	ctx, cancel := context.WithCancel(ctx)
	t := &Transfer{
		progress: make(chan Progress, 16),
		done:     make(chan Outcome, 1),
		cancel:   cancel,
	}
	go u.run(ctx, t, url, field, f)
	return t
}

func (u *Uploader) run(ctx context.Context, t *Transfer, url, field string, f File) {
	defer t.cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(field, f.Name)
		if err == nil {
			_, err = io.Copy(part, f.Content)
		}
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	total := multipartLength(mw.Boundary(), field, f.Name, f.Size)
	body := &progressReader{r: pr, total: total, events: t.progress}
	defer body.finish()
	defer pr.Close()

	started := time.Now()

	finish := func(out Outcome) {
		out.Elapsed = time.Since(started)
		body.finish()
		t.done <- out
		close(t.done)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		finish(Outcome{Kind: OutcomeTransportError, Err: err})
		return
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := u.client.Do(req)
	if err != nil {
		finish(Outcome{Kind: OutcomeTransportError, Err: err})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		finish(Outcome{Kind: OutcomeTransportError, Err: err})
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		finish(Outcome{
			Kind:       OutcomeSuccess,
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Report:     api.DecodeReport(respBody),
		})
		return
	}

	finish(Outcome{
		Kind:       OutcomeProtocolError,
		StatusCode: resp.StatusCode,
		Body:       respBody,
	})
}

// multipartLength computes the exact request body length by writing the same
// multipart framing with empty content and adding the file size.
func multipartLength(boundary, field, name string, size int64) int64 {
	var probe bytes.Buffer
	mw := multipart.NewWriter(&probe)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0
	}
	if _, err := mw.CreateFormFile(field, name); err != nil {
		return 0
	}
	if err := mw.Close(); err != nil {
		return 0
	}
	return int64(probe.Len()) + size
}

// progressReader counts request body bytes as the transport consumes them.
// Events are dropped rather than blocking a slow consumer; finish closes the
// stream exactly once, before the terminal outcome is delivered.
type progressReader struct {
	r      io.ReadCloser
	total  int64
	loaded int64

	mu     sync.Mutex
	closed bool
	events chan Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.emit(Progress{Loaded: p.loaded, Total: p.total})
	}
	return n, err
}

func (p *progressReader) Close() error {
	return p.r.Close()
}

func (p *progressReader) emit(ev Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
	}
}

func (p *progressReader) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.events)
}
