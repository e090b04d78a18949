package plot

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

type TerminalOptions struct {
	Width  int
	Height int
}

func DefaultTerminalOptions() TerminalOptions {
	return TerminalOptions{Width: 80, Height: 15}
}

// Terminal draws the series as an ASCII line graph. asciigraph spaces
// samples evenly, so the caption carries the abscissa range.
func Terminal(s Series, opts TerminalOptions) string {
	if len(s.Y) == 0 {
		return "(no data)"
	}
	if opts.Width <= 0 {
		opts.Width = DefaultTerminalOptions().Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultTerminalOptions().Height
	}

	caption := s.Caption()
	if len(s.X) > 0 {
		caption = fmt.Sprintf("%s (%s: %g .. %g)", caption, s.XLabel, s.X[0], s.X[len(s.X)-1])
	}

	return asciigraph.Plot(s.Y,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}
