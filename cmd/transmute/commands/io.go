package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transmuter/internal/recordio"
)

// ioOptions are the flags of commands that read and write records.
type ioOptions struct {
	spec      string
	in        string
	inFormat  string
	out       string
	outFormat string
}

func (o *ioOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.spec, "spec", "s", "", "specification file (YAML)")
	f.StringVarP(&o.in, "in", "i", "-", "input records file, - for stdin")
	f.StringVar(&o.inFormat, "format", "", "input format (json, yaml, csv); guessed from the file extension by default")
	f.StringVarP(&o.out, "out", "o", "-", "output file, - for stdout")
	f.StringVar(&o.outFormat, "out-format", "json", "output format (json, yaml, csv)")

	_ = cmd.MarkFlagRequired("spec")
}

func (o *ioOptions) read() ([]any, error) {
	format := recordio.FormatOf(o.in)

	if o.inFormat != "" {
		f, err := recordio.ParseFormat(o.inFormat)
		if err != nil {
			return nil, err
		}

		format = f
	}

	return recordio.ReadFile(o.in, format)
}

func (o *ioOptions) write(cmd *cobra.Command, records []any) error {
	format, err := recordio.ParseFormat(o.outFormat)
	if err != nil {
		return err
	}

	if o.out == "-" || o.out == "" {
		return recordio.Write(cmd.OutOrStdout(), format, records)
	}

	file, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create output %s: %w", o.out, err)
	}

	if err := recordio.Write(file, format, records); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}
