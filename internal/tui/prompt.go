package tui

import (
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials are what the login form collects.
type Credentials struct {
	Email    string
	Password string
}

// validateEmail accepts a bare address.
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// loginForm builds the sign-in form. Fields already filled in c are kept as
// defaults.
func loginForm(c *Credentials) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Validate(validateEmail).
			Value(&c.Email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(validatePassword).
			Value(&c.Password),
	).Title("Sign in to courtdesk"))
}

// PromptLogin asks for whichever credentials are missing from c.
func PromptLogin(c Credentials) (Credentials, error) {
	if err := loginForm(&c).Run(); err != nil {
		return Credentials{}, fmt.Errorf("prompt failed: %w", err)
	}
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
