package main

import (
	"fmt"
	"os"
	"time"

	"github.com/xy-planning-network/trailhead"
	"gopkg.in/yaml.v3"
)

// Config is the YAML file configuring the demo host.
// Environment variables fill in anything the file leaves out; cf. package ranger.
type Config struct {
	Env          trailhead.Environment `yaml:"env"`
	Addr         string                `yaml:"addr"`
	LogLevel     string                `yaml:"logLevel"`
	MaxBodyBytes int64                 `yaml:"maxBodyBytes"`
	CORSOrigins  []string              `yaml:"corsOrigins"`
	JWTKey       string                `yaml:"jwtKey"`
	Metrics      bool                  `yaml:"metrics"`
	Tracing      bool                  `yaml:"tracing"`
	ForceHTTPS   bool                  `yaml:"forceHTTPS"`

	RateLimit struct {
		Limit float64 `yaml:"limit"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Static struct {
		Prefix string `yaml:"prefix"`
		Dir    string `yaml:"dir"`
	} `yaml:"static"`

	Timeouts struct {
		Read  time.Duration `yaml:"read"`
		Write time.Duration `yaml:"write"`
		Idle  time.Duration `yaml:"idle"`
	} `yaml:"timeouts"`
}

// loadConfig reads the Config at path.
// An empty path returns the zero Config.
func loadConfig(path string) (*Config, error) {
	cfg := new(Config)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read config file: %s", trailhead.ErrBadConfig, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: cannot parse config file: %s", trailhead.ErrBadConfig, err)
	}

	if cfg.Env != "" {
		if err := cfg.Env.Valid(); err != nil {
			return nil, fmt.Errorf("%w: env %q", trailhead.ErrBadConfig, cfg.Env)
		}
	}

	return cfg, nil
}
