package commands

import (
	"time"

	"github.com/spf13/cobra"

	"transmuter/specfile"
	"transmuter/transmute"
)

func newAggregateCommand(opts *globalOptions) *cobra.Command {
	files := &ioOptions{}

	var parallel int

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group and reduce records with an aggregation specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			in, out, err := runAggregate(cmd, opts, files, parallel)

			return opts.finish("aggregate", in, out, start, err)
		},
	}

	files.register(cmd)
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of groups evaluated concurrently")

	return cmd
}

func runAggregate(cmd *cobra.Command, opts *globalOptions, files *ioOptions, parallel int) (int, int, error) {
	f, err := specfile.LoadFile(files.spec)
	if err != nil {
		return 0, 0, err
	}

	plan, err := specfile.CompileAggregation[*specfile.Transformer](f, specfile.NewRegistry(),
		transmute.WithPlanLogger(opts.logger))
	if err != nil {
		return 0, 0, err
	}

	instanceOpts := append(f.InstanceOptions(),
		transmute.WithLogger(opts.logger),
		transmute.WithParallelism(parallel),
	)

	a, err := transmute.NewAggregator(plan, specfile.NewTransformer(), instanceOpts...)
	if err != nil {
		return 0, 0, err
	}

	records, err := files.read()
	if err != nil {
		return 0, 0, err
	}

	out, err := a.Aggregate(records)
	if err != nil {
		return len(records), 0, err
	}

	return len(records), len(out), files.write(cmd, out)
}
