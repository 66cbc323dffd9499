// Package prompt collects credentials interactively in the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels the form.
var ErrAborted = errors.New("prompt cancelled")

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle  = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// Field describes one input of a Form.
type Field struct {
	Label       string
	Placeholder string
	Value       string
	Secret      bool
	Required    bool
}

// Form is a bubbletea model with one text input per field.
type Form struct {
	title     string
	fields    []Field
	inputs    []textinput.Model
	focus     int
	err       string
	submitted bool
	aborted   bool
}

// NewForm returns a form focused on its first field.
func NewForm(title string, fields ...Field) *Form {
	f := &Form{title: title, fields: fields}
	for _, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.SetValue(field.Value)
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			f.aborted = true
			return f, tea.Quit
		case tea.KeyEnter:
			if f.focus < len(f.inputs)-1 {
				return f, f.setFocus(f.focus + 1)
			}
			if missing := f.firstMissing(); missing >= 0 {
				f.err = fmt.Sprintf("%s is required", f.fields[missing].Label)
				return f, f.setFocus(missing)
			}
			f.submitted = true
			return f, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return f, f.setFocus((f.focus + 1) % len(f.inputs))
		case tea.KeyShiftTab, tea.KeyUp:
			return f, f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
		}
	}

	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View implements tea.Model.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")
	for i, field := range f.fields {
		b.WriteString(labelStyle.Render(field.Label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: submit • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Submitted reports whether the user confirmed the form.
func (f *Form) Submitted() bool {
	return f.submitted
}

// Values returns the current value of every field in order.
func (f *Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, ti := range f.inputs {
		values[i] = strings.TrimSpace(ti.Value())
		if f.fields[i].Secret {
			values[i] = ti.Value()
		}
	}
	return values
}

func (f *Form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

func (f *Form) firstMissing() int {
	for i, field := range f.fields {
		if field.Required && strings.TrimSpace(f.inputs[i].Value()) == "" {
			return i
		}
	}
	return -1
}

// Run shows form on the given terminal streams and returns its values.
func Run(ctx context.Context, in io.Reader, out io.Writer, form *Form) ([]string, error) {
	p := tea.NewProgram(form, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}

	result, ok := final.(*Form)
	if !ok || !result.Submitted() {
		return nil, ErrAborted
	}
	return result.Values(), nil
}
