// Package config reads the optimizer's YAML configuration file.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/datasource"
	"github.com/rxtech-lab/argo-optimizer/internal/grid"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/optimizer"
	"github.com/rxtech-lab/argo-optimizer/internal/strategy"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the content of an optimizer configuration file.
type Config struct {
	DataPath      string                     `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=Parquet or CSV file holding time/open/close columns (glob patterns allowed)" validate:"required"`
	Symbol        string                     `yaml:"symbol" json:"symbol,omitempty" jsonschema:"title=Symbol,description=Filter on the symbol column for files holding several instruments"`
	Strategy      string                     `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Name of a registered strategy,default=ema_band" validate:"required"`
	SP1           optional.Option[grid.Spec] `yaml:"sp1" json:"sp1" jsonschema:"title=First Parameter,description=Progression of p1 as a start/step/mode tuple or an explicit value list"`
	SP2           optional.Option[grid.Spec] `yaml:"sp2" json:"sp2" jsonschema:"title=Second Parameter,description=Progression of p2 as a start/step/mode tuple or an explicit value list"`
	Pairs         []types.Pair               `yaml:"pairs" json:"pairs,omitempty" jsonschema:"title=Pairs,description=Explicit p1/p2 pairs; when set sp1 and sp2 are ignored"`
	Slippage      float64                    `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage,description=Slippage in ticks per unit traded,minimum=0,default=1.5" validate:"gte=0"`
	Engine        backtest.Config            `yaml:"engine" json:"engine" jsonschema:"title=Engine,description=Performance engine settings"`
	Workers       int                        `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Concurrent backtests; 0 uses every CPU,minimum=0" validate:"gte=0"`
	PairTimeout   time.Duration              `yaml:"pair_timeout" json:"pair_timeout" jsonschema:"title=Pair Timeout,description=Maximum duration of one backtest such as 30s; 0 disables it" validate:"gte=0"`
	FailurePolicy optimizer.FailurePolicy    `yaml:"failure_policy" json:"failure_policy" jsonschema:"title=Failure Policy,description=isolate keeps sweeping past failed pairs; fail_fast aborts on the first one" validate:"omitempty,oneof=isolate fail_fast"`
	StartTime     optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional first timestamp to load"`
	EndTime       optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional last timestamp to load"`
	LogLevel      string                     `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,description=debug/info/warn/error,default=info" validate:"omitempty,oneof=debug info warn warning error"`
}

// DefaultConfig returns the configuration applied before a file is read.
func DefaultConfig() Config {
	sweep := optimizer.DefaultConfig()

	return Config{
		DataPath:      "",
		Symbol:        "",
		Strategy:      strategy.EMABandName,
		SP1:           sweep.SP1,
		SP2:           sweep.SP2,
		Pairs:         nil,
		Slippage:      sweep.Slippage,
		Engine:        backtest.DefaultConfig(),
		Workers:       0,
		PairTimeout:   0,
		FailurePolicy: optimizer.FailurePolicyIsolate,
		StartTime:     optional.None[time.Time](),
		EndTime:       optional.None[time.Time](),
		LogLevel:      "info",
	}
}

// Load reads a configuration file on top of DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration on top of DefaultConfig and validates it.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, &config); err != nil {
		if errors.IsConfigurationError(err) {
			return nil, err
		}

		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// UnmarshalYAML implements custom unmarshaling for Config. Keys absent from the
// document keep their current value.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig struct {
		DataPath      string                  `yaml:"data_path"`
		Symbol        string                  `yaml:"symbol"`
		Strategy      string                  `yaml:"strategy"`
		SP1           *grid.Spec              `yaml:"sp1"`
		SP2           *grid.Spec              `yaml:"sp2"`
		Pairs         []types.Pair            `yaml:"pairs"`
		Slippage      float64                 `yaml:"slippage"`
		Engine        backtest.Config         `yaml:"engine"`
		Workers       int                     `yaml:"workers"`
		PairTimeout   time.Duration           `yaml:"pair_timeout"`
		FailurePolicy optimizer.FailurePolicy `yaml:"failure_policy"`
		StartTime     *time.Time              `yaml:"start_time"`
		EndTime       *time.Time              `yaml:"end_time"`
		LogLevel      string                  `yaml:"log_level"`
	}

	raw := rawConfig{
		DataPath:      c.DataPath,
		Symbol:        c.Symbol,
		Strategy:      c.Strategy,
		Pairs:         c.Pairs,
		Slippage:      c.Slippage,
		Engine:        c.Engine,
		Workers:       c.Workers,
		PairTimeout:   c.PairTimeout,
		FailurePolicy: c.FailurePolicy,
		LogLevel:      c.LogLevel,
	}

	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.DataPath = raw.DataPath
	c.Symbol = raw.Symbol
	c.Strategy = raw.Strategy
	c.Pairs = raw.Pairs
	c.Slippage = raw.Slippage
	c.Engine = raw.Engine
	c.Workers = raw.Workers
	c.PairTimeout = raw.PairTimeout
	c.FailurePolicy = raw.FailurePolicy
	c.LogLevel = raw.LogLevel

	if raw.SP1 != nil {
		c.SP1 = optional.Some(*raw.SP1)
	}

	if raw.SP2 != nil {
		c.SP2 = optional.Some(*raw.SP2)
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid optimizer config", err)
	}

	if _, err := optimizer.ParseFailurePolicy(string(c.FailurePolicy)); err != nil {
		return err
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid log level", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end_time %s is before start_time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	for _, spec := range []optional.Option[grid.Spec]{c.SP1, c.SP2} {
		if spec.IsSome() {
			if err := spec.Unwrap().Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}

// Sweep returns the optimizer configuration.
func (c *Config) Sweep() optimizer.Config {
	return optimizer.Config{
		SP1:            c.SP1,
		SP2:            c.SP2,
		Pairs:          c.Pairs,
		Slippage:       c.Slippage,
		Workers:        c.Workers,
		PairTimeout:    c.PairTimeout,
		FailurePolicy:  c.FailurePolicy,
		PeriodsPerYear: c.Engine.PeriodsPerYear,
	}
}

// Range returns the rows to load from the data file.
func (c *Config) Range() datasource.Range {
	return datasource.Range{
		Symbol: c.Symbol,
		Start:  c.StartTime,
		End:    c.EndTime,
	}
}
