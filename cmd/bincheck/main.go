// Command bincheck reads a bin data file and prints every row of the given BINs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/52Jolynn/bindb/bdata"
	"github.com/52Jolynn/bindb/data"
)

func main() {
	logger.SetFormatter(&logger.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	if err := run(context.Background(), afero.NewOsFs(), os.Args[1:], os.Stdout); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, fs afero.Fs, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("bincheck", pflag.ContinueOnError)
	path := flags.StringP("data", "d", data.DefaultDataPath, "bin data csv file, or a directory holding it")
	bins := flags.StringSliceP("bins", "b", data.DefaultProbeBINs, "bins to look for")
	if err := flags.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "Checking %s...\n", *path)
	idx, report, err := bdata.LoadFile(ctx, fs, *path)
	if err != nil {
		return errors.Wrap(err, "check failed")
	}

	for _, bin := range *bins {
		records := idx.All(bin)
		if len(records) == 0 {
			fmt.Fprintf(out, "Missing test BIN: %s\n", bin)
			continue
		}
		for _, r := range records {
			fmt.Fprintf(out, "Found test BIN: %s brand=%s issuer=%s country=%s\n",
				bin, r.Brand(), r.Issuer(), r.CountryName())
		}
	}
	fmt.Fprintf(out, "Check completed: %d records, %d skipped rows\n", idx.Len(), report.Skipped)
	if report.Skipped > 0 {
		fmt.Fprintf(out, "Skipped lines: %s\n", joinInts(report.SkippedLines))
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ",")
}
