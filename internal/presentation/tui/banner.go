package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Algorist ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to lime, one step per line.
	lines := []struct {
		text, color string
	}{
		{"     _    _            _     _", "#2dd4bf"},
		{"    / \\  | | __ _  ___ (_)___| |_", "#34d399"},
		{"   / _ \\ | |/ _` |/ _ \\| / __| __|", "#4ade80"},
		{"  / ___ \\| | (_| | (_) | \\__ \\ |_", "#a3e635"},
		{" /_/   \\_\\_|\\__, |\\___/|_|___/\\__|", "#bef264"},
		{"            |___/", "#d9f99d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
