// Package render formats command output for the terminal.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// DisableColor forces plain output for every style in the process.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Status renders the authenticated state with an optional detail line.
func Status(authenticated bool, detail string) string {
	var line string
	if authenticated {
		line = okStyle.Render("Authenticated")
	} else {
		line = failStyle.Render("Not authenticated")
	}
	if detail != "" {
		line += "\n  " + mutedStyle.Render(detail)
	}
	return line
}

// Success renders a confirmation line.
func Success(msg string) string {
	return okStyle.Render(msg)
}

// Failure renders an error line.
func Failure(msg string) string {
	return failStyle.Render(msg)
}

// Body writes a response body in the given format:
//   - "raw" writes it unchanged
//   - "json" and "pretty" indent JSON bodies, and "pretty" also highlights
//     them when color is true
//
// Bodies that are not JSON are always written unchanged.
func Body(w io.Writer, body, format string, color bool) error {
	switch format {
	case "raw":
		_, err := fmt.Fprintln(w, body)
		return err
	case "json", "pretty", "":
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, []byte(body), "", "  "); err != nil {
		_, err := fmt.Fprintln(w, body)
		return err
	}

	if format != "json" && color {
		if err := quick.Highlight(w, indented.String()+"\n", "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := fmt.Fprintln(w, indented.String())
	return err
}
