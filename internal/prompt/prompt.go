package prompt

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"

	"github.com/iDenSorta/amneziawg-setup/internal/config"
)

// Interactive reports whether stdin is attached to a terminal. Prompting is
// only allowed in that case.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// step identifies the current prompt step.
type step int

const (
	stepLogin step = iota
	stepPassword
	stepMore
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// credentialModel collects one or more login:password pairs.
type credentialModel struct {
	step step

	loginInput    textinput.Model
	passwordInput textinput.Model

	creds   []config.Credential
	errMsg  string
	aborted bool
}

func newCredentialModel() credentialModel {
	li := textinput.New()
	li.Placeholder = "login"
	li.CharLimit = 64
	li.Width = 40
	li.Focus()

	pi := textinput.New()
	pi.Placeholder = "password"
	pi.CharLimit = 128
	pi.Width = 40
	pi.EchoMode = textinput.EchoPassword
	pi.EchoCharacter = '•'

	return credentialModel{
		step:          stepLogin,
		loginInput:    li,
		passwordInput: pi,
	}
}

func (m credentialModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m credentialModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}

		if m.step == stepMore {
			switch keyMsg.String() {
			case "y", "Y":
				m.step = stepLogin
				m.loginInput.Focus()
				return m, textinput.Blink
			case "n", "N":
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.step {
	case stepLogin:
		m.loginInput, cmd = m.loginInput.Update(msg)
	case stepPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m credentialModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepLogin:
		login := m.loginInput.Value()
		if _, err := config.ParseCredential(login + ":x"); err != nil || login == "" {
			m.errMsg = "login must be non-empty and must not contain ':'"
			return m, nil
		}
		m.errMsg = ""
		m.step = stepPassword
		m.loginInput.Blur()
		m.passwordInput.Focus()
		return m, textinput.Blink

	case stepPassword:
		cred, err := config.ParseCredential(m.loginInput.Value() + ":" + m.passwordInput.Value())
		if err != nil {
			m.errMsg = "password must be non-empty and must not contain ':'"
			return m, nil
		}
		m.errMsg = ""
		m.creds = append(m.creds, cred)
		m.loginInput.SetValue("")
		m.passwordInput.SetValue("")
		m.passwordInput.Blur()
		m.step = stepMore
		return m, nil

	case stepMore:
		// Enter defaults to "no more".
		return m, tea.Quit
	}
	return m, nil
}

func (m credentialModel) View() string {
	s := titleStyle.Render("Service credentials") + "\n"

	for _, c := range m.creds {
		s += dimStyle.Render("  ✓ "+c.Login) + "\n"
	}

	switch m.step {
	case stepLogin:
		s += labelStyle.Render("Login: ") + m.loginInput.View() + "\n"
	case stepPassword:
		s += labelStyle.Render("Password: ") + m.passwordInput.View() + "\n"
	case stepMore:
		s += labelStyle.Render("Add another user? ") + dimStyle.Render("(y/N)") + "\n"
	}

	if m.errMsg != "" {
		s += errStyle.Render("  "+m.errMsg) + "\n"
	}

	s += dimStyle.Render("\nenter to confirm · esc to cancel") + "\n"
	return s
}

// CredentialPrompter implements config.Prompter using a Bubble Tea form.
type CredentialPrompter struct{}

// Credentials runs the interactive credential form. Passwords are masked
// while typed and never echoed back.
func (CredentialPrompter) Credentials() ([]config.Credential, error) {
	p := tea.NewProgram(newCredentialModel(), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(credentialModel)
	if !ok {
		return nil, fmt.Errorf("unexpected prompt model type")
	}
	if m.aborted {
		return nil, fmt.Errorf("cancelled")
	}
	if len(m.creds) == 0 {
		return nil, fmt.Errorf("no credentials entered")
	}

	return m.creds, nil
}

var _ config.Prompter = CredentialPrompter{}
