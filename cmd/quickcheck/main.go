// Command quickcheck replays a ".samples" file produced by
// quicksampler through a plain SAT oracle and writes the validated
// subset to a ".samples.valid" file.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/config"
	"github.com/RafaelTupynamba/quicksampler/stats"
	"github.com/RafaelTupynamba/quicksampler/verify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		timeout    time.Duration
		output     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "quickcheck <cnf-file>",
		Short: "verify a quicksampler .samples file against its CNF formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadVerifier(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = config.Duration(timeout)
			}
			if cmd.Flags().Changed("o") {
				cfg.Output = output
			}
			return runVerifier(args[0], cfg)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Hour, "quicksampler_check.timeout equivalent")
	cmd.Flags().StringVarP(&output, "o", "o", "", "output .samples.valid path (default: <samples-file>.valid)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")

	return cmd
}

func runVerifier(inputPath string, cfg config.Verifier) error {
	log := logrus.New().WithField("component", "quickcheck")

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "open input cnf")
	}
	defer in.Close()

	f, ind, err := cnf.ReadDimacs(in)
	if err != nil {
		return errors.Wrap(err, "parse dimacs")
	}

	samplesPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".samples"
	samplesFile, err := os.Open(samplesPath)
	if err != nil {
		return errors.Wrap(err, "open samples file")
	}
	defer samplesFile.Close()

	outPath := cfg.Output
	if outPath == "" {
		outPath = samplesPath + ".valid"
	}
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer out.Close()

	nVars := f.NVars
	for _, v := range ind {
		if int(v) > nVars {
			nVars = int(v)
		}
	}

	st := stats.NewVerifier(nil)
	rep, err := verify.Run(f, ind, samplesFile, out, verify.Options{
		NVars:   nVars,
		Timeout: time.Duration(cfg.Timeout),
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:     log,
		Stats:   st,
	})
	if err != nil {
		return errors.Wrap(err, "verify")
	}

	log.WithField("yield", rep.Yield).Info("verification complete")
	return nil
}
