package screens

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// gate asks for a password before a screen opens.
type gate struct {
	input    textinput.Model
	verify   func(string) (bool, error)
	open     bool
	failures int
	err      error
}

func newGate(placeholder string, verify func(string) (bool, error)) gate {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 64
	ti.Width = 24
	return gate{input: ti, verify: verify}
}

func (g *gate) reset() tea.Cmd {
	g.open = false
	g.failures = 0
	g.err = nil
	g.input.SetValue("")
	g.input.Focus()
	return textinput.Blink
}

// update handles a message while the gate is closed. It returns true for
// esc so the screen can navigate back.
func (g *gate) update(msg tea.Msg) (tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return nil, true
		case "enter":
			ok, err := g.verify(g.input.Value())
			g.input.SetValue("")
			g.err = err
			if ok {
				g.open = true
				g.failures = 0
				g.input.Blur()
			} else if err == nil {
				g.failures++
			}
			return nil, false
		}
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return cmd, false
}

func (g *gate) view(prompt string) string {
	s := prompt + "\n" + g.input.View() + "\n\n"
	if g.err != nil {
		s += ErrorStyle.Render("Error: "+g.err.Error()) + "\n\n"
	} else if g.failures > 0 {
		s += ErrorStyle.Render("Wrong password.") + "\n\n"
	}
	return s + HelpStyle.Render("[enter] Unlock  [esc] Back")
}
