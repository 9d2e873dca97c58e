package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resource-planner/calendar"
	"resource-planner/models"
)

func newWorkdaysCmd(a *app) *cobra.Command {
	var from, to, location, snapshot string

	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "Count the working days of a location in an inclusive date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			// Without a snapshot only weekends are excluded.
			var events []models.CalendarEvent
			if snapshot != "" || a.cfg.Snapshot != "" {
				snap, err := a.loadSnapshot(snapshot)
				if err != nil {
					return err
				}
				events = snap.Events
			}

			n := calendar.CountWorkingDays(start, end, location, events)
			fmt.Fprintf(cmd.OutOrStdout(), "%d working days in %q from %s to %s\n",
				n, location, calendar.FormatDate(start), calendar.FormatDate(end))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last day YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&location, "location", "", "Location whose local holidays apply")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot providing calendar events (default from PLANNER_SNAPSHOT)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
