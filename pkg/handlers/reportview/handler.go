package reportview

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/telco-tools/cdr-uplink/pkg/export/htmlpage"
	"github.com/telco-tools/cdr-uplink/pkg/models/api"
	"github.com/telco-tools/cdr-uplink/pkg/services/report"
	"github.com/telco-tools/cdr-uplink/pkg/store/history"
)

const defaultHistoryLimit = 20

type Handler struct {
	history history.Store
}

func NewHandler(history history.Store) *Handler {
	return &Handler{history: history}
}

// GetReportPage renders the most recently stored tariffing report as a full
// HTML page. A missing or malformed report degrades to the empty state.
func (h *Handler) GetReportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	raw, err := h.history.LastReport(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load last report")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	page := htmlpage.New()
	report.NewRenderer(page.View()).Render(api.DecodeReport(raw))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, page.Render()); err != nil {
		logger.Error().Err(err).Msg("failed to write report page")
	}
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.history.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list upload history")
		http.Error(w, "failed to list history", http.StatusInternalServerError)
		return
	}

	response := make([]api.UploadRecord, 0, len(entries))
	for _, e := range entries {
		response = append(response, api.UploadRecord{
			ID:         e.ID,
			Target:     e.Target,
			FileName:   e.FileName,
			SizeBytes:  e.SizeBytes,
			Outcome:    e.Outcome,
			StatusCode: e.StatusCode,
			ElapsedMs:  e.ElapsedMs,
			CreatedAt:  e.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode upload history")
	}
}
