package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`    __ _ _ __  _ __  ___| |__   ___| | |`, "#38bdf8"},
	{`   / _' | '_ \| '_ \/ __| '_ \ / _ \ | |`, "#60a5fa"},
	{`  | (_| | |_) | |_) \__ \ | | |  __/ | |`, "#818cf8"},
	{`   \__,_| .__/| .__/|___/_| |_|\___|_|_|`, "#a78bfa"},
	{`        |_|   |_|`, "#c084fc"},
}

// PrintBanner writes the appshell banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	v := termenv.String("  " + strings.TrimSpace(version)).Faint()
	fmt.Fprintln(w, v)
	fmt.Fprintln(w)
}
