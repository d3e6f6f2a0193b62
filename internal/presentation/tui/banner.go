package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes a colored banner for the interactive CLI.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  __      __        _                _                ", "#38bdf8"},
		{"  \\ \\    / /_ _ ___| |_ ___ _ _     | |_  _ __ _     ", "#22d3ee"},
		{"   \\ \\/\\/ / _` |_ -|  _/ -_) '_| _  | | || / _` |    ", "#2dd4bf"},
		{"    \\_/\\_/\\__,_/__/ \\__\\___|_|  | || |\\_,_\\__, |    ", "#34d399"},
		{"                                 \\__/      |___/     ", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
