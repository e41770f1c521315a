package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the posematch banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _ __   ___  ___  ___ _ __ ___   __ _| |_ ___| |__", "#22c55e"},
		{" | '_ \\ / _ \\/ __|/ _ \\ '_ ` _ \\ / _` | __/ __| '_ \\", "#10b981"},
		{" | |_) | (_) \\__ \\  __/ | | | | | (_| | || (__| | | |", "#06b6d4"},
		{" | .__/ \\___/|___/\\___|_| |_| |_|\\__,_|\\__\\___|_| |_|", "#3b82f6"},
		{" |_|", "#6366f1"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
