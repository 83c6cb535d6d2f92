package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/turf-analytics/internal/service"
)

func newImportCmd() *cobra.Command {
	var (
		source string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the daily export for a date",
		Long:  `Fetches the daily export from one source, or from every enabled source, and stores the validated races and runners.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(a *app) error {
				var reports []*service.IngestionMetrics
				if source != "" {
					var report *service.IngestionMetrics
					report, err = a.ingestion.ImportDay(cmd.Context(), source, day)
					reports = append(reports, report)
				} else {
					reports, err = a.ingestion.ImportAll(cmd.Context(), day)
				}
				printReports(cmd, reports)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source name (default: all enabled sources)")
	cmd.Flags().StringVar(&date, "date", "", "Race day as YYYY-MM-DD (default: today)")
	return cmd
}

func printReports(cmd *cobra.Command, reports []*service.IngestionMetrics) {
	for _, r := range reports {
		fmt.Fprintln(cmd.OutOrStdout(), r.String())
	}
}
