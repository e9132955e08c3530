package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waxlog/waxlog/internal/client"
)

// authForm holds the inputs for the login, signup and onboarding views.
type authForm struct {
	email    textinput.Model
	password textinput.Model
	name     textinput.Model
	username textinput.Model
	focus    int
	signup   bool
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 64

	username := textinput.New()
	username.Placeholder = "pick a username"
	username.CharLimit = 31

	return authForm{
		email:    email,
		password: password,
		name:     name,
		username: username,
	}
}

// fields returns the login/signup inputs in focus order.
func (f *authForm) fields() []*textinput.Model {
	if f.signup {
		return []*textinput.Model{&f.email, &f.password, &f.name}
	}
	return []*textinput.Model{&f.email, &f.password}
}

func (f *authForm) cycleFocus(delta int) {
	fields := f.fields()
	f.focus = (f.focus + delta + len(fields)) % len(fields)
	for i, field := range fields {
		if i == f.focus {
			field.Focus()
		} else {
			field.Blur()
		}
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.form.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.form.cycleFocus(-1)
		return m, nil
	case "ctrl+s":
		m.form.signup = !m.form.signup
		m.form.focus = 0
		m.form.cycleFocus(0)
		m.status = ""
		return m, nil
	case "enter":
		return m, m.submitAuth()
	}

	fields := m.form.fields()
	var cmd tea.Cmd
	*fields[m.form.focus], cmd = fields[m.form.focus].Update(msg)
	return m, cmd
}

func (m *Model) submitAuth() tea.Cmd {
	email := strings.TrimSpace(m.form.email.Value())
	password := m.form.password.Value()
	name := strings.TrimSpace(m.form.name.Value())
	signup := m.form.signup

	if email == "" || password == "" {
		m.status = "email and password are required"
		return nil
	}
	if signup && name == "" {
		m.status = "name is required"
		return nil
	}

	return func() tea.Msg {
		if signup {
			user, err := m.lib.API().Signup(m.ctx, email, password, name)
			return authResultMsg{user: user, err: err}
		}
		user, err := m.lib.API().Login(m.ctx, email, password)
		return authResultMsg{user: user, err: err}
	}
}

func (m *Model) handleOnboardingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.avail.State != client.AvailabilityAvailable {
			return m, nil
		}
		username := m.avail.Username
		return m, func() tea.Msg {
			user, err := m.lib.API().ClaimUsername(m.ctx, username)
			return authResultMsg{user: user, err: err}
		}
	}

	var cmd tea.Cmd
	before := m.form.username.Value()
	m.form.username, cmd = m.form.username.Update(msg)
	if value := m.form.username.Value(); value != before {
		m.checker.Input(m.ctx, value)
	}
	return m, cmd
}

func (m *Model) renderLogin() string {
	var b strings.Builder

	mode := "sign in"
	if m.form.signup {
		mode = "sign up"
	}
	b.WriteString(styles.title.Render("waxlog — "+mode) + "\n")

	b.WriteString(m.form.email.View() + "\n")
	b.WriteString(m.form.password.View() + "\n")
	if m.form.signup {
		b.WriteString(m.form.name.View() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + styles.err.Render(m.status) + "\n")
	}
	b.WriteString("\n" + styles.help.Render("enter submit · ctrl+s toggle signup · esc quit") + "\n")
	return b.String()
}

func (m *Model) renderOnboarding() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("waxlog — claim your username") + "\n")
	b.WriteString(m.form.username.View() + "\n\n")

	switch m.avail.State {
	case client.AvailabilityChecking:
		b.WriteString(fmt.Sprintf("%s checking %q…\n", m.spin.View(), m.avail.Username))
	case client.AvailabilityAvailable:
		b.WriteString(styles.ok.Render(fmt.Sprintf("%q is available", m.avail.Username)) + "\n")
	case client.AvailabilityInvalid:
		b.WriteString(styles.err.Render(m.avail.Reason) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + styles.err.Render(m.status) + "\n")
	}
	b.WriteString("\n" + styles.help.Render("enter claim · esc quit") + "\n")
	return b.String()
}
