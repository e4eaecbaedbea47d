package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"grid-forecast/config"
	"grid-forecast/dao/blob"
	"grid-forecast/di"
	"grid-forecast/logging"
	"grid-forecast/util"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gridforecast",
		Short:        "Day-ahead national electricity demand forecaster",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(accuracyCmd())
	rootCmd.AddCommand(modelCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withContainer loads the configuration, wires the container and runs fn.
func withContainer(ctx context.Context, fn func(c *di.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(container)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Forecast the next 24 hours and store the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var runDate time.Time
			if date != "" {
				parsed, err := time.Parse(blob.FORECAST_DATE_LAYOUT, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				runDate = parsed
			}
			return withContainer(cmd.Context(), func(c *di.Container) error {
				summary, err := c.ForecastService.RunForecast(cmd.Context(), runDate)
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "generation date for the artifact name (YYYY-MM-DD, default today)")
	return cmd
}

func ingestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Refresh the stored demand history from the data portal or a local file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(c *di.Container) error {
				if file != "" {
					raw, err := util.ReadFileBytes(file)
					if err != nil {
						return err
					}
					summary, err := c.IngestService.IngestRaw(cmd.Context(), raw)
					if err != nil {
						return err
					}
					return printJSON(summary)
				}
				summary, err := c.IngestService.Ingest(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "local history CSV to upload instead of downloading")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and forecast API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(c *di.Container) error {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				if minutes := c.Config.Forecast.ScheduleMinutes; minutes > 0 {
					c.Logger.Infof("[Main] Scheduling forecast every %d minutes", minutes)
					c.ForecastService.StartPeriodicJob(ctx, time.Duration(minutes)*time.Minute)
				}
				return c.GridForecastServer.Start(ctx)
			})
		},
	}
}

func accuracyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accuracy",
		Short: "Report the MAPE of stored forecasts against actual demand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), func(c *di.Container) error {
				dashboard, err := c.DashboardService.Build(cmd.Context())
				if err != nil {
					return err
				}
				for _, acc := range dashboard.Accuracy {
					if acc.MAPE == nil {
						fmt.Printf("%s  overlap=%-3d  MAPE=n/a\n", acc.Date, acc.OverlapPoints)
						continue
					}
					fmt.Printf("%s  overlap=%-3d  MAPE=%.2f%%\n", acc.Date, acc.OverlapPoints, *acc.MAPE)
				}
				if dashboard.OverallMAPE == nil {
					fmt.Println(dashboard.Message)
					return nil
				}
				fmt.Printf("overall MAPE=%.2f%%\n", *dashboard.OverallMAPE)
				return nil
			})
		},
	}
}

func modelCmd() *cobra.Command {
	modelRoot := &cobra.Command{
		Use:   "model",
		Short: "Manage the regression model artifact",
	}

	modelRoot.AddCommand(&cobra.Command{
		Use:   "push [model.json]",
		Short: "Validate a local model artifact and upload it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := util.ReadLinearModelFromJSON(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(c *di.Container) error {
				if err := c.ForecastDAO.PutModel(cmd.Context(), model); err != nil {
					return err
				}
				c.Logger.WithField("key", c.Config.Keys.Model).Info("[Main] Uploaded model artifact")
				return nil
			})
		},
	})

	return modelRoot
}
