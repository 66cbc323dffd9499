package prompt

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(f *Form, s string) {
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(f *Form, k tea.KeyType) {
	f.Update(tea.KeyMsg{Type: k})
}

func TestFormSubmit(t *testing.T) {
	f := NewForm("Log in",
		Field{Label: "Email", Required: true},
		Field{Label: "Password", Secret: true, Required: true},
	)

	typeText(f, "ada@example.com")
	press(f, tea.KeyEnter)
	typeText(f, " pass word ")
	press(f, tea.KeyEnter)

	require.True(t, f.Submitted())
	assert.Equal(t, []string{"ada@example.com", " pass word "}, f.Values(), "secrets are not trimmed")
}

func TestFormRequiresFields(t *testing.T) {
	f := NewForm("Log in",
		Field{Label: "Email", Required: true},
		Field{Label: "Password", Secret: true, Required: true},
	)

	press(f, tea.KeyTab)
	typeText(f, "pw")
	press(f, tea.KeyEnter)

	assert.False(t, f.Submitted())
	assert.Contains(t, f.View(), "Email is required")

	typeText(f, "ada@example.com")
	press(f, tea.KeyDown)
	press(f, tea.KeyEnter)
	assert.True(t, f.Submitted())
}

func TestFormAbort(t *testing.T) {
	f := NewForm("Log in", Field{Label: "Email"})

	press(f, tea.KeyEsc)

	assert.False(t, f.Submitted())
	assert.True(t, f.aborted)
}

func TestFormViewHidesSecret(t *testing.T) {
	f := LoginForm("ada@example.com")
	press(f, tea.KeyTab)
	typeText(f, "hunter22")

	view := f.View()
	assert.Contains(t, view, "ada@example.com")
	assert.NotContains(t, view, "hunter22")
}

func TestDefaultEmailFromGitConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"), []byte("[user]\n\tname = Ada\n\temail = ada@example.com\n"), 0600))

	assert.Equal(t, "ada@example.com", DefaultEmail())

	f := RegistrationForm("", "")
	assert.Equal(t, []string{"", "ada@example.com", ""}, f.Values())
}
