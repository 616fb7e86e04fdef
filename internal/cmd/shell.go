package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/tui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive terminal shell",
	Long: `Open the terminal shell. Type a path to navigate, a menu number to open
that entry, or one of :dismiss <id>, :logout and :quit.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

var shellStart string

func init() {
	shellCmd.Flags().StringVar(&shellStart, "path", "", "path to open first (default: the portal home)")

	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	start := shellStart
	if start == "" {
		if r, ok := a.store.Role(); ok {
			start = r.Home()
		}
	}
	if start != "" {
		a.portal.Navigate(start)
	}

	m := tui.NewModel(cmd.Context(), a.portal)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}
