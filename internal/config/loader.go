package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/DiagBench/pkg/errors"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "DIAGBENCH"

// defaultConfigName is the file name searched for when no path is given.
const defaultConfigName = "diagbench"

// newViper builds a viper instance with YAML type, DIAGBENCH_ env binding and
// a "." → "_" key replacer, so "service.base_url" reads DIAGBENCH_SERVICE_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// searchPaths lists the directories probed by Load when configPath is empty.
func searchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".diagbench"))
	}
	return append(paths, "/etc/diagbench")
}

// Load resolves configuration for the CLI. A non-empty configPath must exist.
// An empty configPath probes ./diagbench.yaml, ~/.diagbench/diagbench.yaml and
// /etc/diagbench/diagbench.yaml, falling back to defaults plus environment
// when none is found.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		return LoadFromFile(configPath)
	}

	v := newViper()
	v.SetConfigName(defaultConfigName)
	for _, p := range searchPaths() {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "config: failed to read config file")
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromFile reads the YAML file at configPath, merges DIAGBENCH_*
// overrides, applies defaults and validates.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeValidation, "config: failed to read config file %q", configPath)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from DIAGBENCH_* variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "config: failed to unmarshal configuration")
	}

	// comma-separated env values arrive as a single element
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers[0])
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

//Personal.AI order the ending
