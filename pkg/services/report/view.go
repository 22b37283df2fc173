package report

// TextRegion is a plain-text element such as the summary line.
type TextRegion interface {
	SetText(text string)
}

// TableSection is a showable region wrapping a table body. SetRows replaces
// the body wholesale with pre-escaped row markup; there is no incremental
// diffing.
type TableSection interface {
	SetRows(rows []string)
	Show()
	Hide()
}

// View is the rendering surface a Renderer owns exclusively: one summary
// region, the totals section and the calls-detail section. Implementations
// range from a full HTML page to test fakes.
type View struct {
	Summary TextRegion
	Totals  TableSection
	Calls   TableSection
}
