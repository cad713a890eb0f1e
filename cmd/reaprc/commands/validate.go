package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/reaprc/cmd/reaprc/opts"
	"github.com/walteh/reaprc/pkg/manifest"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(newOpts func() (*opts.RootOpts, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest for problems without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOpts()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "validate").Logger().WithContext(ctx)

			rules, err := manifest.Load(ctx, o.ManifestPath)
			if err != nil {
				return errors.Errorf("loading manifest: %w", err)
			}

			problems := manifest.Problems(rules)
			for _, p := range problems {
				pterm.Warning.Println(p)
			}
			if len(problems) > 0 {
				return errors.Errorf("%d problem(s) in %s", len(problems), o.ManifestPath)
			}

			pterm.Success.Printfln("%s: %d rule(s), no problems", o.ManifestPath, len(rules))
			return nil
		},
	}

	return cmd
}
