package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/moffa90/go-radiomem/memory"
)

// progressBar draws a single status line that is rewritten in place.
type progressBar struct {
	w     io.Writer
	width int
	fill  *color.Color
	shown bool
}

// newProgressBar returns nil when w is not an interactive terminal.
func newProgressBar(w io.Writer) *progressBar {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}

	cols, _, err := terminal.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		cols = 80
	}

	return &progressBar{
		w:     w,
		width: cols,
		fill:  color.New(color.FgHiWhite, color.BgGreen),
	}
}

func (b *progressBar) update(p memory.Progress) {
	label := fmt.Sprintf(" %-8s %3.0f%% %d/%d blocks %s", p.Phase, p.Percentage, p.CurrentBlock, p.TotalBlocks,
		p.ElapsedTime.Round(time.Second/10))

	barWidth := b.width - len(label) - 3
	if barWidth < 10 {
		barWidth = 10
	}
	done := int(p.Percentage / 100 * float64(barWidth))

	fmt.Fprintf(b.w, "\r[%s%s]%s", b.fill.Sprint(strings.Repeat(" ", done)), strings.Repeat(" ", barWidth-done), label)
	b.shown = true
}

func (b *progressBar) finish() {
	if b.shown {
		fmt.Fprintln(b.w)
		b.shown = false
	}
}
