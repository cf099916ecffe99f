// Package config is the shared YAML-backed configuration for both
// CLIs. Each CLI invocation loads its own config explicitly rather
// than through a package-level global.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML config files can spell budgets
// the same way the CLI flags do ("2h", "7200s"). Plain yaml.v3 would
// otherwise decode a bare time.Duration field only from an integer
// nanosecond count, which is not how these config files are meant to
// be written.
type Duration time.Duration

// UnmarshalYAML accepts a duration string ("10s", "2h"), the same
// syntax the CLI's own flag.Duration values take.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, "decode duration")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders d the way time.Duration.String does.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Sampler holds the knobs the sampler CLI exposes both as flags and
// as YAML keys; flags set after loading a file override it.
type Sampler struct {
	MaxSamples int      `yaml:"maxSamples"`
	MaxTime    Duration `yaml:"maxTime"`
	Seed       int64    `yaml:"seed"`
	Output     string   `yaml:"output"`
	Verbose    bool     `yaml:"verboseModel"`
}

// DefaultSampler matches the CLI defaults: 10,000,000 max samples, a
// two-hour wall clock budget.
func DefaultSampler() Sampler {
	return Sampler{
		MaxSamples: 10_000_000,
		MaxTime:    Duration(2 * time.Hour),
	}
}

// Verifier holds the knobs the verifier CLI exposes.
type Verifier struct {
	Timeout Duration `yaml:"timeout"`
	Output  string   `yaml:"output"`
}

// DefaultVerifier matches the CLI default of a one-hour check budget.
func DefaultVerifier() Verifier {
	return Verifier{Timeout: Duration(time.Hour)}
}

// LoadSampler reads a YAML sampler config from path, starting from
// DefaultSampler so missing keys keep their defaults.
func LoadSampler(path string) (Sampler, error) {
	cfg := DefaultSampler()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read sampler config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse sampler config")
	}
	return cfg, nil
}

// LoadVerifier reads a YAML verifier config from path.
func LoadVerifier(path string) (Verifier, error) {
	cfg := DefaultVerifier()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read verifier config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse verifier config")
	}
	return cfg, nil
}
