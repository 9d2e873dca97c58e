package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"resource-planner/calendar"
	"resource-planner/config"
	"resource-planner/logging"
	"resource-planner/metrics"
	"resource-planner/models"
	"resource-planner/parser"
	"resource-planner/periods"
)

const pushJobName = "resource_planner"

// app carries the state shared by every command once flags and environment
// have been resolved.
type app struct {
	cfg  *config.Config
	log  *logrus.Logger
	wait bool

	metricsServer *http.Server
}

func (a *app) rootCmd() *cobra.Command {
	var logLevel, metricsAddr, pushURL string

	cmd := &cobra.Command{
		Use:           "resource-planner",
		Short:         "Resource utilization planning over staffing snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.DefaultEnvFiles)
			if err != nil {
				return withCode(exitUsage, err)
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("push-url") {
				cfg.PushURL = pushURL
			}
			if err := cfg.Validate(); err != nil {
				return withCode(exitUsage, err)
			}
			a.cfg = cfg
			a.log = logging.NewWithOutput(cfg.LogLevel, cmd.ErrOrStderr())
			a.serveMetrics()
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error|silent (default from PLANNER_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	cmd.PersistentFlags().StringVar(&pushURL, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	cmd.PersistentFlags().BoolVar(&a.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newPeriodsCmd(a))
	cmd.AddCommand(newWorkdaysCmd(a))
	return cmd
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := a.executeAndFinish(ctx, a.rootCmd()); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(code)
	}
}

func (a *app) serveMetrics() {
	if a.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.log.WithField("addr", a.cfg.MetricsAddr).Info("metrics server listening on /metrics")
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.WithError(err).Error("metrics server error")
		}
	}()
}

// executeAndFinish runs the command and then finishes metrics reporting, on
// failure as well as on success.
func (a *app) executeAndFinish(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if finishErr := a.finish(ctx); err == nil {
		err = finishErr
	}
	return err
}

// finish pushes metrics when configured and, with --wait, blocks until the
// command context is cancelled so the metrics endpoint can still be scraped.
func (a *app) finish(ctx context.Context) error {
	if a.cfg == nil {
		return nil
	}
	if a.cfg.PushURL != "" {
		if err := push.New(a.cfg.PushURL, pushJobName).Gatherer(metrics.Registry).Push(); err != nil {
			a.log.WithError(err).Error("pushing to Pushgateway")
		} else {
			a.log.WithField("url", a.cfg.PushURL).Info("metrics pushed to Pushgateway")
		}
	}
	if a.metricsServer == nil {
		return nil
	}
	if a.wait {
		a.log.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		<-ctx.Done()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.metricsServer.Shutdown(shutdownCtx)
}

// loadSnapshot reads the snapshot named by path, falling back to
// PLANNER_SNAPSHOT.
func (a *app) loadSnapshot(path string) (*models.Snapshot, error) {
	if path == "" {
		path = a.cfg.Snapshot
	}
	if path == "" {
		return nil, withCode(exitUsage, fmt.Errorf("--snapshot is required (or set PLANNER_SNAPSHOT)"))
	}
	snap, err := parser.Load(path, a.log)
	if err != nil {
		return nil, loadError(err)
	}
	return snap, nil
}

// viewMode resolves --view, falling back to PLANNER_DEFAULT_VIEW.
func (a *app) viewMode(view string) (models.ViewMode, error) {
	if view == "" {
		view = a.cfg.DefaultView
	}
	mode, err := periods.ParseViewMode(view)
	if err != nil {
		return "", withCode(exitUsage, err)
	}
	return mode, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value; an empty value means today.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return calendar.Day(time.Now()), nil
	}
	d, err := calendar.ParseDate(value)
	if err != nil {
		return time.Time{}, withCode(exitUsage, fmt.Errorf("invalid --%s: %w", name, err))
	}
	return d, nil
}
