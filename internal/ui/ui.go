package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/papapumpkin/montage/internal/ansi"
	"github.com/papapumpkin/montage/internal/journal"
	"github.com/papapumpkin/montage/internal/placement"
)

// Printer writes styled status lines for the CLI, to stderr by default.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a color printer writing to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr, color: true}
}

// NewWriter returns a printer writing to w, styled only when color is set.
func NewWriter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(s string, codes ...string) string {
	if !p.color {
		return s
	}
	return ansi.Paint(s, codes...)
}

// Banner prints the program name box.
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.paint("  ┌─────────────────────────────┐", ansi.Bold, ansi.Cyan))
	fmt.Fprintln(p.w, p.paint("  │", ansi.Bold, ansi.Cyan)+p.paint("  MONTAGE  ", ansi.Bold)+
		p.paint("timeline editor", ansi.Dim)+p.paint("   │", ansi.Bold, ansi.Cyan))
	fmt.Fprintln(p.w, p.paint("  └─────────────────────────────┘", ansi.Bold, ansi.Cyan))
	fmt.Fprintln(p.w)
}

// Error prints msg as an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint("error: ", ansi.Red, ansi.Bold), msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(msg, ansi.Dim))
}

// Warn reports a non-fatal problem, such as a lenient anchor map defect.
func (p *Printer) Warn(err error) {
	fmt.Fprintf(p.w, "%s%v\n", p.paint("⚠ ", ansi.Yellow, ansi.Bold), err)
}

// Done reports a committed edit.
func (p *Printer) Done(label string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("✓", ansi.Green, ansi.Bold), label)
}

// Saved reports that the project file was written.
func (p *Printer) Saved(path string, revision int64) {
	if revision > 0 {
		fmt.Fprintf(p.w, "%s %s %s\n", p.paint("◆ saved", ansi.Cyan), path, p.paint(fmt.Sprintf("(revision %d)", revision), ansi.Dim))
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.paint("◆ saved", ansi.Cyan), path)
}

// ValidateResult prints the outcome of validating a project. Joined errors
// are listed one per line.
func (p *Printer) ValidateResult(path string, items int, err error) {
	if err == nil {
		fmt.Fprintf(p.w, "%s — %d item(s), no errors\n", p.paint(fmt.Sprintf("✓ %s", path), ansi.Green, ansi.Bold), items)
		return
	}
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	fmt.Fprintf(p.w, "%s — %d error(s):\n", p.paint(fmt.Sprintf("✗ %s", path), ansi.Red, ansi.Bold), len(errs))
	for _, e := range errs {
		fmt.Fprintf(p.w, "  %s%s\n", p.paint("• ", ansi.Red), e.Error())
	}
}

// FitResult prints where a mover of the given length would land in a
// sequence.
func (p *Printer) FitResult(seqID string, x, index int, r placement.Range, ok bool) {
	if !ok {
		fmt.Fprintf(p.w, "%s at x=%d in %s\n", p.paint("✗ no room", ansi.Red, ansi.Bold), x, seqID)
		return
	}
	fmt.Fprintf(p.w, "%s %s index %d, x range %s\n", p.paint("✓ fits", ansi.Green, ansi.Bold), seqID, index, r)
}

// Overlaps prints the overlap sets of one item.
func (p *Printer) Overlaps(id string, direct, up, down []string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("overlaps of", ansi.Bold), id)
	for _, row := range []struct {
		name string
		ids  []string
	}{{"direct", direct}, {"above", up}, {"below", down}} {
		list := strings.Join(row.ids, ", ")
		if list == "" {
			list = p.paint("(none)", ansi.Dim)
		}
		fmt.Fprintf(p.w, "  %-7s %s\n", row.name+":", list)
	}
}

// Revisions prints journal entries, newest first.
func (p *Printer) Revisions(revs []journal.Revision) {
	if len(revs) == 0 {
		fmt.Fprintln(p.w, p.paint("  (no revisions)", ansi.Dim))
		return
	}
	for _, r := range revs {
		fmt.Fprintf(p.w, "  %s %s %-30s %s\n",
			p.paint(fmt.Sprintf("%4d", r.ID), ansi.Cyan),
			p.paint(r.CreatedAt.Local().Format(time.DateTime), ansi.Dim),
			r.Label,
			p.paint(fmt.Sprintf("%d B", r.Size), ansi.Dim))
	}
}

// Reverted reports a restored revision.
func (p *Printer) Reverted(id int64, label string) {
	fmt.Fprintf(p.w, "%s to revision %d (%s)\n", p.paint("↺ reverted", ansi.Yellow, ansi.Bold), id, label)
}

// Report prints err, unwrapping joined errors onto separate lines.
func (p *Printer) Report(err error) {
	var j interface{ Unwrap() []error }
	if errors.As(err, &j) {
		for _, e := range j.Unwrap() {
			p.Error(e.Error())
		}
		return
	}
	p.Error(err.Error())
}
