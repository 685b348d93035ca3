package view

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgGreen, color.Bold)
	idColor      = color.New(color.FgHiBlack)
	hostColor    = color.New(color.FgCyan)
	versionColor = color.New(color.FgYellow)
)

// WriteText prints the tree for a terminal. Colour follows fatih/color's
// detection (NO_COLOR, non-tty output) unless noColor forces it off.
func WriteText(w io.Writer, lib Library, noColor bool) error {
	paint := func(c *color.Color, s string) string {
		if noColor {
			return s
		}
		return c.Sprint(s)
	}

	if len(lib.Projects) == 0 {
		_, err := fmt.Fprintln(w, "(no projects)")
		return err
	}
	for _, p := range lib.Projects {
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", paint(titleColor, p.Title), paint(idColor, p.ID), p.LastActivity); err != nil {
			return err
		}
		if p.Version != "" {
			line := "  version " + paint(versionColor, p.Version)
			if p.VersionAt != "" {
				line += fmt.Sprintf(" (%s, %s)", p.VersionAt, p.VersionAgo)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		for _, c := range p.Checkouts {
			if _, err := fmt.Fprintf(w, "  %s  %s  %s\n", paint(hostColor, c.Host), c.Path, c.LastSeen); err != nil {
				return err
			}
		}
	}
	return nil
}
