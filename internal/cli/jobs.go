package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mrops-br/crm-api/internal/infrastructure/config"
	"github.com/mrops-br/crm-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/crm-api/internal/scheduler"
	"github.com/spf13/cobra"
)

var (
	// One-shot job flags
	endpoint string
	jobLog   string
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Record one heartbeat and exit",
	Long: `Call the hello query once and append the result to the heartbeat log.

Suitable for an external cron line such as "*/5 * * * * crm-api heartbeat".
A failed check is still recorded in the log and does not fail the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyEndpointFlag(&cfg.GraphQL)
		if jobLog != "" {
			cfg.Heartbeat.LogFile = jobLog
		}

		return runOnce(cmd.Context(), func(telem *telemetry.Telemetry) (scheduler.Job, time.Duration, error) {
			tracer := telem.TracerProvider.Tracer(instrumentationName)
			return newHeartbeatJob(&cfg.Heartbeat, &cfg.GraphQL, tracer, telem.Logger), cfg.Heartbeat.Timeout, nil
		}, false)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write one CRM report and exit",
	Long: `Query the API for customers and orders and append the weekly summary
line to the report log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyEndpointFlag(&cfg.GraphQL)
		if jobLog != "" {
			cfg.Report.LogFile = jobLog
		}

		return runOnce(cmd.Context(), func(telem *telemetry.Telemetry) (scheduler.Job, time.Duration, error) {
			tracer := telem.TracerProvider.Tracer(instrumentationName)
			job, _, err := newReportJob(&cfg.Report, &cfg.GraphQL, tracer, telem.Logger)
			return job, cfg.Report.Timeout, err
		}, true)
	},
}

func init() {
	rootCmd.AddCommand(heartbeatCmd, reportCmd)

	for _, cmd := range []*cobra.Command{heartbeatCmd, reportCmd} {
		cmd.Flags().StringVar(&endpoint, "endpoint", "", "GraphQL endpoint (overrides GRAPHQL_ENDPOINT)")
		cmd.Flags().StringVar(&jobLog, "log-file", "", "Log file to append to")
	}
}

// applyEndpointFlag points every job at --endpoint when it is given
func applyEndpointFlag(api *config.GraphQLConfig) {
	if endpoint != "" {
		api.Endpoint = endpoint
	}
}

// runOnce builds a job with telemetry and runs it through the scheduler's
// instrumented path. Heartbeat failures are already in the log, so only
// jobs with failOnError turn a failed run into a non-zero exit.
func runOnce(
	ctx context.Context,
	build func(*telemetry.Telemetry) (scheduler.Job, time.Duration, error),
	failOnError bool,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	telem, err := telemetry.Setup(&cfg.OTLP)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telem.Shutdown(shutdownCtx)
	}()

	job, timeout, err := build(telem)
	if err != nil {
		return err
	}

	sched := scheduler.New(nil, 0,
		telem.TracerProvider.Tracer(instrumentationName),
		telem.MeterProvider.Meter(instrumentationName),
		telem.Logger,
	)

	if err := sched.RunNow(ctx, job, timeout); err != nil && failOnError {
		return err
	}
	return nil
}
