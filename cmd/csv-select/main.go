package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tckz/go-csvsplit"
)

var version = "dev"

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	param := csvsplit.SelectParam{}
	var columns []string

	cmd := &cobra.Command{
		Use:           "csv-select -i input.csv -c column[:rename]... -o output.csv",
		Short:         "Copy selected columns of a CSV file, optionally renaming them",
		Version:       version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := csvsplit.ParseColumnSpecs(columns)
			if err != nil {
				return err
			}
			param.Columns = cols

			s := csvsplit.NewSelector()
			s.Log.Out = stderr
			if param.Verbose {
				s.Log.SetLevel(logrus.DebugLevel)
			}

			summary, err := s.Do(cmd.Context(), param)
			if err != nil {
				return err
			}
			summary.FprintSelect(stdout, param.Output)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", csvsplit.ErrConfig, err)
	})

	f := cmd.Flags()
	f.StringVarP(&param.Input, "input", "i", "", "Input CSV file, - for stdin (required)")
	// StringArray keeps commas inside a single spec intact.
	f.StringArrayVarP(&columns, "column", "c", nil, "<name> or <source>:<output>, repeatable (required)")
	f.StringVarP(&param.Output, "output", "o", "", "Output CSV file (required)")
	f.StringVar(&param.Compress, "compress", "", "Compress outputs {gzip|none}")
	f.BoolVarP(&param.Verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", csvsplit.ErrConfig, args)
	}
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return csvsplit.ExitOK
	}

	fmt.Fprintf(stdout, "*** %v\n", err)
	if errors.Is(err, csvsplit.ErrOutput) {
		fmt.Fprintf(stdout, "*** the output file may be partially written\n")
	}
	return csvsplit.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
