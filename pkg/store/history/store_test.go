package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestStore_Add(t *testing.T) {
	store, mock := newMockStore(t)

	entry := Entry{
		Target:     "cdr",
		FileName:   "calls.csv",
		SizeBytes:  2048,
		Outcome:    "success",
		StatusCode: 200,
		ElapsedMs:  12.3,
		ReportJSON: []byte(`{"status":"ok"}`),
	}

	mock.ExpectExec("INSERT INTO uploads").
		WithArgs(
			entry.Target, entry.FileName, entry.SizeBytes,
			entry.Outcome, entry.StatusCode, entry.ElapsedMs, entry.ReportJSON,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Add(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "target", "file_name", "size_bytes",
		"outcome", "status_code", "elapsed_ms", "created_at",
	}).
		AddRow(2, "cdr", "calls.csv", 2048, "success", 200, 12.3, created).
		AddRow(1, "tariffs", "tariffs.csv", 512, "protocol_error", 422, 3.5, created)

	mock.ExpectQuery("SELECT id, target, file_name").
		WithArgs(20).
		WillReturnRows(rows)

	entries, err := store.List(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "cdr", entries[0].Target)
	assert.Equal(t, "success", entries[0].Outcome)
	assert.Equal(t, 422, entries[1].StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LastReport(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT report_json").
		WillReturnRows(sqlmock.NewRows([]string{"report_json"}).AddRow([]byte(`{"status":"ok"}`)))

	raw, err := store.LastReport(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LastReportEmptyHistory(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT report_json").
		WillReturnError(sql.ErrNoRows)

	raw, err := store.LastReport(context.Background())
	require.NoError(t, err, "an empty history is not an error")
	assert.Nil(t, raw)
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
