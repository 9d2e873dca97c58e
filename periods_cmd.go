package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resource-planner/models"
	"resource-planner/periods"
)

func newPeriodsCmd(a *app) *cobra.Command {
	var (
		anchor   string
		view     string
		next     int
		previous int
	)

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the display periods for an anchor date and view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if next < 0 || previous < 0 {
				return withCode(exitUsage, fmt.Errorf("--next and --previous must be non-negative"))
			}
			anchorDate, err := parseDateFlag("anchor", anchor)
			if err != nil {
				return err
			}
			mode, err := a.viewMode(view)
			if err != nil {
				return err
			}

			nav := periods.NewNavigator(anchorDate, mode)
			for range next {
				nav.Next()
			}
			for range previous {
				nav.Previous()
			}
			ps, err := nav.Periods()
			if err != nil {
				return withCode(exitUsage, err)
			}

			w := cmd.OutOrStdout()
			for _, p := range ps {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Label(), p.Start.Format(models.DateLayout), p.End.Format(models.DateLayout))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "Anchor date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&view, "view", "", "View mode: day|week|month (default from PLANNER_DEFAULT_VIEW)")
	cmd.Flags().IntVar(&next, "next", 0, "Page forward this many windows")
	cmd.Flags().IntVar(&previous, "previous", 0, "Page back this many windows")
	cmd.MarkFlagsMutuallyExclusive("next", "previous")
	return cmd
}
