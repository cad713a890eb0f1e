package commands

import (
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/reaprc/cmd/reaprc/opts"
	"gitlab.com/tozd/go/errors"
)

// NewScheduleCmd creates a new schedule command
func NewScheduleCmd(newOpts func() (*opts.RootOpts, error)) *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the manifest on a cron schedule until interrupted",
		Long: `Schedule executes the manifest on every cron tick. A tick that
fires while a previous run is still in flight is skipped, keeping at
most one run active per manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOpts()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = zerolog.Ctx(ctx).With().Str("command", "schedule").Logger().WithContext(ctx)
			logger := zerolog.Ctx(ctx)

			var inFlight sync.Mutex
			scheduler := cron.New()
			_, err = scheduler.AddFunc(cronSpec, func() {
				if !inFlight.TryLock() {
					logger.Warn().Msg("previous run still in flight, skipping tick")
					return
				}
				defer inFlight.Unlock()

				if err := runOnce(ctx, o); err != nil {
					logger.Error().Err(err).Msg("scheduled run failed")
				}
			})
			if err != nil {
				return errors.Errorf("parsing cron spec %q: %w", cronSpec, err)
			}

			logger.Info().Str("cron", cronSpec).Msg("scheduler started")
			scheduler.Start()

			<-ctx.Done()
			<-scheduler.Stop().Done()
			logger.Info().Msg("scheduler stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "@daily", "cron spec for scheduled runs")

	return cmd
}
