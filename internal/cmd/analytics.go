package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show case and hearing statistics",
}

var analyticsTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Monthly filings and closures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app) error {
			points, err := a.client.CasesTrend(ctx)
			if err != nil {
				return err
			}
			return render(cmd, trendTable(points))
		})
	},
}

var analyticsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "Case count per case type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app) error {
			shares, err := a.client.CasesByType(ctx)
			if err != nil {
				return err
			}
			return render(cmd, typeTable(shares))
		})
	},
}

var analyticsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Hearings per weekday this week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app) error {
			days, err := a.client.DailyHearings(ctx)
			if err != nil {
				return err
			}
			return render(cmd, dailyTable(days))
		})
	},
}

var analyticsPerformanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "The signed-in advocate's record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app) error {
			perf, err := a.client.AdvocatePerformance(ctx)
			if err != nil {
				return err
			}
			return render(cmd, performanceOutput{*perf})
		})
	},
}

var analyticsPendencyCmd = &cobra.Command{
	Use:   "pendency",
	Short: "Pending cases per month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, a *app) error {
			points, err := a.client.Pendency(ctx)
			if err != nil {
				return err
			}
			return render(cmd, pendencyTable(points))
		})
	},
}

func init() {
	analyticsCmd.AddCommand(analyticsTrendCmd, analyticsTypesCmd, analyticsDailyCmd, analyticsPerformanceCmd, analyticsPendencyCmd)
	rootCmd.AddCommand(analyticsCmd)
}

// bar draws n as a row of blocks, one per unit up to limit.
func bar(n, limit int) string {
	n = min(max(n, 0), limit)
	return strings.Repeat("█", n)
}

type trendTable []api.TrendPoint

func (points trendTable) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tFILED\tCLOSED")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Month, p.Filed, p.Closed)
	}
	return tw.Flush()
}

type typeTable []api.TypeShare

func (shares typeTable) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%d\n", s.Name, s.Value)
	}
	return tw.Flush()
}

type dailyTable []api.DayCount

func (days dailyTable) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range days {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Day, d.Count, bar(d.Count, 40))
	}
	return tw.Flush()
}

type pendencyTable []api.PendencyPoint

func (points pendencyTable) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\n", p.Month, p.Pending)
	}
	return tw.Flush()
}

type performanceOutput struct {
	api.Performance `yaml:",inline"`
}

func (o performanceOutput) RenderText(w io.Writer) error {
	p := o.Performance
	fmt.Fprintf(w, "Cases: %d  Active: %d  Win rate: %s\n", p.TotalCases, p.ActiveCases, p.WinRate)
	if len(p.Specializations) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCASES\tWINS\tRATE")
	for _, s := range p.Specializations {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Type, s.Cases, s.Wins, s.Rate)
	}
	return tw.Flush()
}
