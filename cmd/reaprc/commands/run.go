package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/reaprc/cmd/reaprc/opts"
	"github.com/walteh/reaprc/pkg/eraser"
	"github.com/walteh/reaprc/pkg/lockfile"
	"github.com/walteh/reaprc/pkg/manifest"
	"github.com/walteh/reaprc/pkg/operation"
	"github.com/walteh/reaprc/pkg/report"
	"github.com/walteh/reaprc/pkg/selector"
	"github.com/walteh/reaprc/pkg/verify"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(newOpts func() (*opts.RootOpts, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the manifest's maintenance rules once",
		Long: `Run loads the rule manifest and executes every rule in order.
It will:
1. Select candidate files per rule by age and name filter
2. Purge or relocate them according to the rule's operation
3. Render the per-file outcomes and raise a completion notification`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOpts()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			return runOnce(ctx, o)
		},
	}

	return cmd
}

// runOnce executes the whole manifest a single time. It renders the
// report, raises the completion notification and returns an error iff the
// run's overall flag is failure, which drives the process exit status.
func runOnce(ctx context.Context, o *opts.RootOpts) error {
	rules, err := manifest.Load(ctx, o.ManifestPath)
	if err != nil {
		return errors.Errorf("loading manifest: %w", err)
	}

	if o.LockPath != "" {
		lock, err := lockfile.Acquire(o.LockPath)
		if err != nil {
			return errors.Errorf("locking: %w", err)
		}
		defer lock.Release()
	}

	engine, err := operation.New(operation.Options{
		Selector: selector.New(),
		Eraser:   eraser.New(),
		Hasher:   verify.New(),
	})
	if err != nil {
		return errors.Errorf("creating engine: %w", err)
	}

	res := engine.Run(ctx, rules)

	report.NewRenderer(os.Stdout).Render(ctx, res)
	report.NewConsoleNotifier().Notify(ctx, res, o.Severity)

	if !res.OK() {
		return errors.New("maintenance run completed with failures")
	}
	return nil
}
