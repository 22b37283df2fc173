package upload

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Controller turns file-selection intent for one target into exactly one
// in-flight multipart upload, surfacing progress and the terminal outcome on
// its StatusView. Side effects are confined to the injected view.
type Controller struct {
	target   Target
	view     StatusView
	uploader *Uploader
	snapshot func() Snapshot
	logger   zerolog.Logger

	mu     sync.Mutex
	active *Transfer
}

func NewController(
	target Target,
	view StatusView,
	uploader *Uploader,
	snapshot func() Snapshot,
	logger zerolog.Logger,
) *Controller {
	if uploader == nil {
		uploader = NewUploader(http.DefaultClient)
	}
	if snapshot == nil {
		snapshot = func() Snapshot { return Snapshot{} }
	}
	return &Controller{
		target:   target,
		view:     view,
		uploader: uploader,
		snapshot: snapshot,
		logger:   logger,
	}
}

// HandlePick consumes a file-chooser selection. Only the first file is used;
// extra selections are ignored. An empty selection is a no-op and yields an
// OutcomeNone, never a success.
func (c *Controller) HandlePick(ctx context.Context, paths ...string) (Outcome, error) {
	return c.acquire(ctx, paths)
}

// HandleDrop consumes a drag-and-drop release. Semantics are identical to
// HandlePick: same target, same send-time URL resolution.
func (c *Controller) HandleDrop(ctx context.Context, paths ...string) (Outcome, error) {
	return c.acquire(ctx, paths)
}

func (c *Controller) acquire(ctx context.Context, paths []string) (Outcome, error) {
	if len(paths) == 0 {
		return Outcome{Kind: OutcomeNone}, nil
	}
	return c.upload(ctx, paths[0])
}

func (c *Controller) upload(ctx context.Context, path string) (Outcome, error) {
	src, err := os.Open(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	st, err := src.Stat()
	if err != nil {
		return Outcome{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f := File{Name: filepath.Base(path), Size: st.Size(), Content: src}

	c.view.SetFileName(f.Name)
	c.view.SetProgress(0)
	c.view.SetProgressText("")
	c.view.SetStatus(StatusOK, "Uploading...")

	url := c.target.BuildURL(c.snapshot())

	c.logger.Debug().
		Str("target", c.target.Name).
		Str("file", f.Name).
		Int64("size", f.Size).
		Str("url", url).
		Msg("starting upload")

	t := c.uploader.Start(ctx, url, c.target.Field, f)

	// A fresh acquisition supersedes an in-flight transfer on this target.
	c.mu.Lock()
	if prev := c.active; prev != nil {
		prev.Cancel()
	}
	c.active = t
	c.mu.Unlock()

	for ev := range t.Progress() {
		if ev.Total <= 0 {
			continue
		}
		pct := roundPct(ev.Loaded, ev.Total)
		c.view.SetProgress(pct)
		c.view.SetProgressText(fmt.Sprintf("%d%% (%d KB / %d KB)",
			pct, roundKB(ev.Loaded), roundKB(ev.Total)))
	}

	out := <-t.Done()
	c.settle(out)
	return out, nil
}

func (c *Controller) settle(out Outcome) {
	elapsedMs := float64(out.Elapsed.Microseconds()) / 1000

	switch out.Kind {
	case OutcomeSuccess:
		c.view.SetProgress(100)
		c.view.SetStatus(StatusOK, fmt.Sprintf("OK (HTTP %d, elapsed ~%.1f ms)", out.StatusCode, elapsedMs))
		if c.target.OnSuccess != nil {
			c.target.OnSuccess(out.Report)
		}

	case OutcomeProtocolError:
		body := string(out.Body)
		if body == "" {
			body = "unknown"
		}
		c.view.SetStatus(StatusErr, fmt.Sprintf("upload failed (HTTP %d): %s", out.StatusCode, body))
		c.logger.Warn().
			Str("target", c.target.Name).
			Int("status", out.StatusCode).
			Msg("upload rejected")

	case OutcomeTransportError:
		c.view.SetStatus(StatusErr, "network error during upload")
		c.logger.Warn().
			Str("target", c.target.Name).
			Err(out.Err).
			Msg("upload transport failure")
	}
}

func roundPct(loaded, total int64) int {
	return int(math.Round(float64(loaded) / float64(total) * 100))
}

func roundKB(b int64) int64 {
	return int64(math.Round(float64(b) / 1024))
}
