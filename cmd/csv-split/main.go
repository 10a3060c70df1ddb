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
	param := csvsplit.SplitParam{}
	var group string

	cmd := &cobra.Command{
		Use:           "csv-split -i input.csv -g column:regex -o out-{group}.csv",
		Short:         "Split a CSV file by the first capture group of a regex applied to one column",
		Version:       version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := csvsplit.ParseGroupSpec(group)
			if err != nil {
				return err
			}
			param.Group = g

			s := csvsplit.NewSplitter()
			s.Log.Out = stderr
			if param.Verbose {
				s.Log.SetLevel(logrus.DebugLevel)
			}

			summary, err := s.Do(cmd.Context(), param)
			if err != nil {
				return err
			}
			summary.FprintSplit(stdout)
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
	f.StringVarP(&group, "group", "g", "", "<column>:<regex>, the first capture group names the output (required)")
	f.BoolVarP(&param.RowPerOutputFile, "rowPerOutputFile", "r", false, "Write rows matching more than once to "+csvsplit.MultipleMatchesOnRegex+" only")
	f.StringVarP(&param.Output, "output", "o", "", "Output path, must contain "+csvsplit.Placeholder+" (required)")
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
		fmt.Fprintf(stdout, "*** output files already written were left in place\n")
	}
	return csvsplit.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
