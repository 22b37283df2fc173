package upload

// StatusKind mirrors the ok/err styling of a status label.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusErr
)

// StatusView is the per-target UI surface a Controller writes to: a filename
// label, a 0..100 progress indicator, a progress text line and a status label.
// Controllers never look elements up themselves; the view is injected so the
// pipeline is testable without a rendering surface.
type StatusView interface {
	SetFileName(name string)
	SetProgress(pct int)
	SetProgressText(text string)
	SetStatus(kind StatusKind, text string)
}
