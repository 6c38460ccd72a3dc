package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/ui/styles"
)

const labelWidth = len(ActionInspected)

// Progress prints one line per event as the run goes
type Progress struct {
	out           io.Writer
	showInspected bool
}

// NewProgress creates a progress printer. Inspected paths are only printed
// when showInspected is set since every file produces one per scan.
func NewProgress(out io.Writer, showInspected bool) *Progress {
	return &Progress{out: out, showInspected: showInspected}
}

// StageStarted implements Recorder
func (p *Progress) StageStarted(stage string) {
	_, _ = fmt.Fprintln(p.out, styles.Render("Header", "==> "+stage))
}

// Record implements Recorder
func (p *Progress) Record(event Event) {
	if event.Action == ActionInspected && !p.showInspected {
		return
	}
	_, _ = fmt.Fprintln(p.out, FormatEvent(event))
}

// FormatEvent renders an event as a single styled line
func FormatEvent(event Event) string {
	label := styles.Render(string(event.Action), string(event.Action))
	if pad := labelWidth - len(event.Action); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	line := label + " " + styles.Render("FilePath", event.Path)
	if event.Target != "" {
		line += " -> " + styles.Render("FilePath", event.Target)
	}
	if event.Detail != "" {
		line += " " + styles.Render("Muted", "("+event.Detail+")")
	}
	return line
}
