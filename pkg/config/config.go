package config

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath names an alternative config file location.
	EnvConfigPath = "POWER_MONITOR_CONFIG"

	defaultConfigFile = "config.yaml"
)

// ErrBadConfig is returned when the config file exists but its top level is
// not a mapping.
var ErrBadConfig = pkgerrors.New("config.yaml wrong")

// Meter holds the per-meter keys of the config file. Any value may be a
// literal or a ${ENV_VAR} indirection; callers resolve through ResolveString.
type Meter struct {
	URL     string `yaml:"url,omitempty"`
	MID     string `yaml:"mid,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// Config is the typed shape of the config file. All keys are optional, both
// at the top level and nested under meter.
type Config struct {
	URL     string `yaml:"url,omitempty"`
	MID     string `yaml:"mid,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Meter   Meter  `yaml:"meter,omitempty"`
}

// Load reads the config file. The path is taken from the given flag value,
// then POWER_MONITOR_CONFIG, then config.yaml in the working directory. A
// missing or empty file yields the zero Config; a file whose top level is
// not a mapping is ErrBadConfig.
func Load(path string) (*Config, error) {
	candidate := FirstNonEmpty(path, EnvString(EnvConfigPath), defaultConfigFile)

	if fi, err := os.Stat(candidate); err != nil || fi.IsDir() {
		logrus.WithField("path", candidate).Debug("no config file, using empty config")
		return &Config{}, nil
	}

	b, err := os.ReadFile(candidate)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read config %s", candidate)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse config %s", candidate)
	}
	if len(root.Content) == 0 {
		return &Config{}, nil
	}

	doc := root.Content[0]
	if doc.Tag == "!!null" {
		return &Config{}, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, ErrBadConfig
	}

	conf := Config{}
	if err := doc.Decode(&conf); err != nil {
		// Values of the wrong shape are ignored, same as any other absent
		// key; only a TypeError carries a partially decoded config.
		var typeErr *yaml.TypeError
		if !pkgerrors.As(err, &typeErr) {
			return nil, pkgerrors.Wrapf(err, "failed to decode config %s", candidate)
		}
		logrus.WithField("path", candidate).Warnf("ignoring malformed config values: %v", err)
	}

	logrus.WithField("path", candidate).Debug("loaded config file")
	return &conf, nil
}
