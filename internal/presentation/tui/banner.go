package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the admitcheck banner with the version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`             _           _ _       _               _    `, "#818cf8"},
		{`    __ _  __| |_ __ ___ (_) |_ ___| |__   ___  ___| | __`, "#a78bfa"},
		{`   / _' |/ _' | '_ ' _ \| | __/ __| '_ \ / _ \/ __| |/ /`, "#c084fc"},
		{`  | (_| | (_| | | | | | | | || (__| | | |  __/ (__|   < `, "#e879f9"},
		{`   \__,_|\__,_|_| |_| |_|_|\__\___|_| |_|\___|\___|_|\_\`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  Zulassungscheck v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
