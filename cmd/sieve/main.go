// Command sieve prints every prime up to n, one per line.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/sieve"
)

var errMissingBound = errors.New("usage: sieve <n>: missing upper bound")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string
	cmd := &cobra.Command{
		Use:           "sieve <n>",
		Short:         "Find all primes up to n",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingBound
			}
			return cobra.MaximumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			format, err := logging.ParseFormat(logFormat)
			if err != nil {
				return err
			}
			logger := logging.New(level, format, cmd.ErrOrStderr())

			n, err := sieve.ParseBound(args[0])
			if err != nil {
				return err
			}
			logger.Info("finding all primes", logging.F("upper_bound", n))
			start := time.Now()
			primes := sieve.Primes(n)
			logger.Debug("sieve complete",
				logging.F("primes", len(primes)),
				logging.F("elapsed_ms", time.Since(start).Seconds()*1000),
			)

			buf := make([]byte, 0, 16*len(primes))
			for _, p := range primes {
				buf = strconv.AppendInt(buf, int64(p), 10)
				buf = append(buf, '\n')
			}
			_, err = cmd.OutOrStdout().Write(buf)
			return err
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	return cmd
}
