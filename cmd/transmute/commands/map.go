package commands

import (
	"time"

	"github.com/spf13/cobra"

	"transmuter/specfile"
	"transmuter/transmute"
)

func newMapCommand(opts *globalOptions) *cobra.Command {
	files := &ioOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Transform every record with a mapping specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			in, out, err := runMap(cmd, opts, files)

			return opts.finish("map", in, out, start, err)
		},
	}

	files.register(cmd)

	return cmd
}

func runMap(cmd *cobra.Command, opts *globalOptions, files *ioOptions) (int, int, error) {
	f, err := specfile.LoadFile(files.spec)
	if err != nil {
		return 0, 0, err
	}

	plan, err := specfile.CompileMapping[*specfile.Transformer](f, specfile.NewRegistry(),
		transmute.WithPlanLogger(opts.logger))
	if err != nil {
		return 0, 0, err
	}

	m, err := transmute.NewMapper(plan, specfile.NewTransformer(),
		append(f.InstanceOptions(), transmute.WithLogger(opts.logger))...)
	if err != nil {
		return 0, 0, err
	}

	records, err := files.read()
	if err != nil {
		return 0, 0, err
	}

	out, err := m.MapList(records)
	if err != nil {
		return len(records), 0, err
	}

	return len(records), len(out), files.write(cmd, out)
}
