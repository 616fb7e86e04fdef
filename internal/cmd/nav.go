package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/portal"
)

var navCmd = &cobra.Command{
	Use:   "nav <path>",
	Short: "Resolve a portal path for the current session",
	Long: `Evaluate a path against the route guard as the signed-in user, follow
any redirects and print the page that renders with its breadcrumbs and menu.

Example:
  courtdesk nav /court/qr
  courtdesk nav /advocate/cases/12 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runNav,
}

func init() {
	rootCmd.AddCommand(navCmd)
}

// pageOutput is a rendered page.
type pageOutput struct {
	portal.View `yaml:",inline"`
}

func runNav(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return render(cmd, pageOutput{a.portal.Navigate(args[0])})
}

func (p pageOutput) RenderText(w io.Writer) error {
	v := p.View

	fmt.Fprintf(w, "Page: %s\n", v.Path)
	if v.Redirected {
		fmt.Fprintf(w, "Redirected from %s (%s)\n", v.RequestedPath, v.RedirectReason)
	}
	for _, k := range slices.Sorted(maps.Keys(v.Decision.Params)) {
		fmt.Fprintf(w, "  %s = %s\n", k, v.Decision.Params[k])
	}

	labels := make([]string, len(v.Breadcrumbs))
	for i, c := range v.Breadcrumbs {
		labels[i] = c.Label
	}
	fmt.Fprintf(w, "Breadcrumbs: %s\n", strings.Join(labels, " > "))

	if len(v.Menu) > 0 {
		fmt.Fprintln(w, "Menu:")
		for _, item := range v.Menu {
			marker := " "
			if item.Active {
				marker = "*"
			}
			fmt.Fprintf(w, " %s %-18s %s\n", marker, item.Label, item.Path)
		}
	}
	return nil
}
