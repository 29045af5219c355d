package commands

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"transmuter/specfile"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var (
		spec string
		dump bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a specification file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			err := runCheck(cmd, opts, spec, dump)

			return opts.finish("check", 0, 0, start, err)
		},
	}

	cmd.Flags().StringVarP(&spec, "spec", "s", "", "specification file (YAML)")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed specification")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *globalOptions, path string, dump bool) error {
	f, err := specfile.LoadFile(path)
	if err != nil {
		return err
	}

	if dump {
		spew.Fdump(cmd.OutOrStdout(), f)
	}

	reg := specfile.NewRegistry()

	var (
		targets  int
		warnings []string
	)

	switch f.Kind {
	case specfile.KindMapping:
		plan, err := specfile.CompileMapping[*specfile.Transformer](f, reg)
		if err != nil {
			return err
		}

		targets = len(plan.Targets())

	case specfile.KindAggregation:
		plan, err := specfile.CompileAggregation[*specfile.Transformer](f, reg)
		if err != nil {
			return err
		}

		targets = len(plan.Targets())
		warnings = plan.Warnings()
	}

	opts.logger.Debug().Str("spec", path).Str("kind", string(f.Kind)).Msg("specification compiled")

	out := cmd.OutOrStdout()
	for _, w := range warnings {
		if _, err := fmt.Fprintf(out, "%s: warning: %s\n", path, w); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "%s: valid %s with %d targets\n", path, f.Kind, targets)

	return err
}
