package application

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	welding "weld-schedule/internal/welding/domain"
)

// NumberingConfig holds the first number of each weld class.
type NumberingConfig struct {
	ButtWeld   int `yaml:"buttweld"`
	Tap        int `yaml:"tap"`
	SocketWeld int `yaml:"socketweld"`
}

// ExportConfig controls schedule rendering.
type ExportConfig struct {
	Title   string `yaml:"title"`
	Project string `yaml:"project"`
}

// Config defines weld numbering configuration.
type Config struct {
	Numbering NumberingConfig `yaml:"numbering"`
	Export    ExportConfig    `yaml:"export"`
}

// DefaultConfig keeps the class ranges apart when all welds are listed together.
func DefaultConfig() Config {
	return Config{
		Numbering: NumberingConfig{ButtWeld: 11, Tap: 51, SocketWeld: 71},
		Export:    ExportConfig{Title: "Weld Schedule"},
	}
}

// LoadConfig loads config from the yaml file named by WELD_CONFIG, then env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("WELD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("weld config %s: %w", path, err)
		}
	}

	cfg.Numbering.ButtWeld = getenvIntDefault("WELD_START_BUTTWELD", cfg.Numbering.ButtWeld)
	cfg.Numbering.Tap = getenvIntDefault("WELD_START_TAP", cfg.Numbering.Tap)
	cfg.Numbering.SocketWeld = getenvIntDefault("WELD_START_SOCKETWELD", cfg.Numbering.SocketWeld)
	if cfg.Export.Title == "" {
		cfg.Export.Title = "Weld Schedule"
	}
	if cfg.Export.Project == "" {
		cfg.Export.Project = os.Getenv("WELD_PROJECT")
	}
	return cfg, cfg.Validate()
}

// Validate checks that every class starts at a positive number.
func (c Config) Validate() error {
	for _, class := range welding.Classes {
		if c.Numbering.StartFor(class) <= 0 {
			return fmt.Errorf("%w: %s", welding.ErrInvalidStartNumber, class)
		}
	}
	return nil
}

// StartFor returns the first number for a class.
func (n NumberingConfig) StartFor(class welding.ClassTag) int {
	switch class {
	case welding.ClassButtWeld:
		return n.ButtWeld
	case welding.ClassTap:
		return n.Tap
	case welding.ClassSocketWeld:
		return n.SocketWeld
	default:
		return 0
	}
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
