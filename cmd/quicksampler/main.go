// Command quicksampler reads a CNF formula and streams uniform-like
// samples of its independent variables to a ".samples" file, driven
// by the epoch loop in package sampler.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RafaelTupynamba/quicksampler/cnf"
	"github.com/RafaelTupynamba/quicksampler/config"
	"github.com/RafaelTupynamba/quicksampler/oracle"
	"github.com/RafaelTupynamba/quicksampler/sampler"
	"github.com/RafaelTupynamba/quicksampler/stats"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		maxSamples   int
		maxTime      time.Duration
		seed         int64
		output       string
		configPath   string
		verboseModel bool
	)

	cmd := &cobra.Command{
		Use:   "quicksampler <cnf-file>",
		Short: "sample satisfying assignments of a CNF formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSampler(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("n") {
				cfg.MaxSamples = maxSamples
			}
			if cmd.Flags().Changed("t") {
				cfg.MaxTime = config.Duration(maxTime)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("o") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("verbose-model") {
				cfg.Verbose = verboseModel
			}
			return runSampler(args[0], cfg)
		},
	}

	cmd.Flags().IntVarP(&maxSamples, "n", "n", 10_000_000, "maximum number of samples to write")
	cmd.Flags().DurationVarP(&maxTime, "t", "t", 2*time.Hour, "maximum wall-clock time")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the pseudo-random source (default: wall clock)")
	cmd.Flags().StringVarP(&output, "o", "o", "", "output .samples path (default: the input path with its extension replaced by .samples)")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().BoolVar(&verboseModel, "verbose-model", false, "log the full seed model at debug level each epoch")

	return cmd
}

func runSampler(inputPath string, cfg config.Sampler) error {
	log := logrus.New().WithField("component", "quicksampler")

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer in.Close()

	f, ind, err := cnf.ReadDimacs(in)
	if err != nil {
		return errors.Wrap(err, "parse dimacs")
	}

	outPath := cfg.Output
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".samples"
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

	o := oracle.NewMaxSatOracle(f, nVars)
	st := stats.NewSampler(nil)

	rngSeed := cfg.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := sampler.New(ind, o, out,
		sampler.WithMaxSamples(cfg.MaxSamples),
		sampler.WithMaxTime(time.Duration(cfg.MaxTime)),
		sampler.WithRand(rng),
		sampler.WithStats(st),
		sampler.WithLogger(log),
		sampler.WithVerboseModel(cfg.Verbose),
		sampler.WithContext(ctx),
	)

	if err := s.Run(); err != nil {
		return errors.Wrap(err, "sampler run")
	}
	return nil
}
