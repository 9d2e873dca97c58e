package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	planerrors "resource-planner/errors"
	"resource-planner/formatter"
	"resource-planner/report"
)

var validFormats = map[string]bool{"text": true, "json": true, "csv": true, "xlsx": true}

func newReportCmd(a *app) *cobra.Command {
	var (
		snapshot  string
		anchor    string
		view      string
		format    string
		out       string
		resources []string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the utilization table for the periods around an anchor date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[format] {
				return withCode(exitUsage, fmt.Errorf("format must be one of: text, json, csv, xlsx (got: %s)", format))
			}
			anchorDate, err := parseDateFlag("anchor", anchor)
			if err != nil {
				return err
			}
			mode, err := a.viewMode(view)
			if err != nil {
				return err
			}
			snap, err := a.loadSnapshot(snapshot)
			if err != nil {
				return err
			}

			builder := report.NewBuilder(snap,
				report.WithCache(report.NewCache(a.cfg.CacheSize)),
				report.WithWorkers(a.cfg.Workers),
				report.WithLogger(a.log),
			)
			rep, err := builder.Build(cmd.Context(), report.Request{
				Anchor:      anchorDate,
				View:        mode,
				ResourceIDs: resources,
			})
			if err != nil {
				if errors.Is(err, planerrors.ErrUnknownResource) {
					return withCode(exitValidation, err)
				}
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "json":
				buf.WriteString(formatter.FormatJSON(rep))
				buf.WriteString("\n")
			case "csv":
				buf.WriteString(formatter.FormatCSV(rep))
			case "xlsx":
				if err := formatter.WriteXLSX(rep, &buf); err != nil {
					return withCode(exitIO, errors.Wrap(err, "render workbook"))
				}
			default: // "text"
				buf.WriteString(formatter.FormatText(rep))
			}
			return writeOutput(cmd.OutOrStdout(), out, buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot directory of CSV files or YAML file (default from PLANNER_SNAPSHOT)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Anchor date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&view, "view", "", "View mode: day|week|month (default from PLANNER_DEFAULT_VIEW)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv|xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringArrayVar(&resources, "resource", nil, "Restrict the report to this resource ID (repeatable)")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return withCode(exitIO, errors.Wrap(err, "write report"))
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	return nil
}
