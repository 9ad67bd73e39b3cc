// Package structlearn holds the file-based training configuration shared by
// the CLI and the daemon.
package structlearn

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/structlearn/structlearn/trainer"
)

type Config struct {
	Training TrainingConfig `toml:"training"`
	Stopping StoppingConfig `toml:"stopping"`
	Sampling SamplingConfig `toml:"sampling"`
	Data     DataConfig     `toml:"data"`
	Output   OutputConfig   `toml:"output"`
}

type TrainingConfig struct {
	Lambda          float64 `toml:"lambda"`
	Beta            float64 `toml:"beta"`
	Partitions      int     `toml:"partitions"`
	LineSearch      bool    `toml:"line_search"`
	UseCache        bool    `toml:"use_cache"`
	CacheSize       int     `toml:"cache_size"`
	Averaging       bool    `toml:"averaging"`
	SparseState     bool    `toml:"sparse_state"`
	DebugMultiplier int     `toml:"debug_multiplier"`
	CheckpointFreq  int     `toml:"checkpoint_freq"`
	Seed            int64   `toml:"seed"`
}

type StoppingConfig struct {
	Criterion    string  `toml:"criterion"`
	Rounds       int     `toml:"rounds"`
	TimeLimitS   int     `toml:"time_limit_s"`
	GapThreshold float64 `toml:"gap_threshold"`
	GapCheck     int     `toml:"gap_check"`
}

type SamplingConfig struct {
	Mode            string  `toml:"mode"`
	Fraction        float64 `toml:"fraction"`
	Count           int     `toml:"count"`
	WithReplacement bool    `toml:"with_replacement"`
}

// DataConfig describes the synthetic dataset of the demo problem.
type DataConfig struct {
	Examples     int     `toml:"examples"`
	TestExamples int     `toml:"test_examples"`
	Dimension    int     `toml:"dimension"`
	Margin       float64 `toml:"margin"`
	Seed         int64   `toml:"seed"`
}

type OutputConfig struct {
	CheckpointDir string `toml:"checkpoint_dir"`
	MQTTAddress   string `toml:"mqtt_address"`
	MQTTTopic     string `toml:"mqtt_topic"`
	RoundLog      string `toml:"round_log"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(*c)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// TrainerConfig translates the file configuration into the trainer's.
func (c *Config) TrainerConfig() trainer.Config {
	return trainer.Config{
		Lambda:        c.Training.Lambda,
		Beta:          c.Training.Beta,
		NumPartitions: c.Training.Partitions,
		Stopping: trainer.StoppingConfig{
			Criterion:    c.Stopping.Criterion,
			Rounds:       c.Stopping.Rounds,
			TimeLimit:    time.Duration(c.Stopping.TimeLimitS) * time.Second,
			GapThreshold: c.Stopping.GapThreshold,
			GapCheck:     c.Stopping.GapCheck,
		},
		Sampling: trainer.SamplingConfig{
			Mode:            c.Sampling.Mode,
			Fraction:        c.Sampling.Fraction,
			Count:           c.Sampling.Count,
			WithReplacement: c.Sampling.WithReplacement,
		},
		LineSearch:      c.Training.LineSearch,
		UseCache:        c.Training.UseCache,
		CacheSize:       c.Training.CacheSize,
		Averaging:       c.Training.Averaging,
		SparseState:     c.Training.SparseState,
		DebugMultiplier: c.Training.DebugMultiplier,
		CheckpointFreq:  c.Training.CheckpointFreq,
		Seed:            c.Training.Seed,
	}
}

// DefaultConfig is the starting point the interactive init command edits.
func DefaultConfig() *Config {
	return &Config{
		Training: TrainingConfig{
			Lambda:          0.01,
			Beta:            1.0,
			Partitions:      4,
			LineSearch:      true,
			DebugMultiplier: 1,
			CheckpointFreq:  50,
		},
		Stopping: StoppingConfig{
			Criterion: trainer.StopRounds,
			Rounds:    100,
			GapCheck:  10,
		},
		Sampling: SamplingConfig{
			Mode:     "fraction",
			Fraction: 1.0,
		},
		Data: DataConfig{
			Examples:     200,
			TestExamples: 50,
			Dimension:    10,
			Margin:       0.5,
			Seed:         42,
		},
	}
}
