package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/telco-tools/cdr-uplink/pkg/services/upload"
)

const barWidth = 30

// StatusView renders upload progress and status to a terminal. It implements
// upload.StatusView; progress redraws in place via carriage return.
type StatusView struct {
	w    io.Writer
	pct  int
	text string
}

func NewStatusView(w io.Writer) *StatusView {
	if w == nil {
		w = os.Stdout
	}
	return &StatusView{w: w}
}

func (v *StatusView) SetFileName(name string) {
	fmt.Fprintf(v.w, "file: %s\n", name)
}

func (v *StatusView) SetProgress(pct int) {
	v.pct = pct
	v.draw()
}

func (v *StatusView) SetProgressText(text string) {
	v.text = text
	v.draw()
}

func (v *StatusView) SetStatus(kind upload.StatusKind, text string) {
	label := "ok"
	if kind == upload.StatusErr {
		label = "err"
	}
	fmt.Fprintf(v.w, "\n[%s] %s\n", label, text)
}

func (v *StatusView) draw() {
	filled := v.pct * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	fmt.Fprintf(v.w, "\r[%s] %s", bar, v.text)
}
