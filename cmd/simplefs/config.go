package main

import (
	"io/ioutil"
	"os"

	errs "github.com/jmgilman/go/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	. "github.com/weberc2/simplefs/pkg/types"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "SIMPLEFS"
	appName      = "simplefs"

	BackendImage  = "image"
	BackendGoose  = "goose"
	BackendMemory = "memory"

	gooseBlockSize Byte = 4096
)

type Config struct {
	Image     string `envconfig:"IMAGE"      yaml:"image"`
	Backend   string `envconfig:"BACKEND"    yaml:"backend"`
	Blocks    Block  `envconfig:"BLOCKS"     yaml:"blocks"`
	BlockSize Byte   `envconfig:"BLOCK_SIZE" yaml:"blockSize"`
	LogLevel  string `envconfig:"LOG_LEVEL"  yaml:"logLevel"`
	Bucket    string `envconfig:"BUCKET"     yaml:"bucket"`
	Region    string `envconfig:"REGION"     yaml:"region"`
	Endpoint  string `envconfig:"ENDPOINT"   yaml:"endpoint"`
}

func Defaults() Config {
	return Config{
		Image:     appName + ".img",
		Backend:   BackendImage,
		Blocks:    200,
		BlockSize: 4096,
		LogLevel:  "warn",
		Region:    "us-east-1",
	}
}

// LoadConfig layers the YAML file at `configFile` (or $SIMPLEFS_CONFIG_FILE)
// and then the environment over the defaults. A missing file is not an
// error.
func LoadConfig(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = os.Getenv(envVarPrefix + "_CONFIG_FILE")
	}

	c := Defaults()
	if configFile != "" {
		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errs.Wrap(
					err,
					errs.CodeInvalidConfig,
					"reading config file",
				)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, errs.Wrap(
				err,
				errs.CodeInvalidConfig,
				"unmarshaling config file",
			)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, errs.Wrap(
			err,
			errs.CodeInvalidConfig,
			"parsing environment variables",
		)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		switch c.Backend {
		case BackendImage, BackendGoose:
			if c.Image == "" {
				return "image", "IMAGE"
			}
		case BackendMemory:
		default:
			return "backend", "BACKEND"
		}
		if c.Blocks < 1 {
			return "blocks", "BLOCKS"
		}
		if err := (Geometry{BlockSize: c.BlockSize}).Validate(); err != nil {
			return "blockSize", "BLOCK_SIZE"
		}
		if c.Backend == BackendGoose && c.BlockSize != gooseBlockSize {
			return "blockSize", "BLOCK_SIZE"
		}
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return "logLevel", "LOG_LEVEL"
		}
		return "", ""
	}(); y != "" {
		return errs.Newf(
			errs.CodeInvalidConfig,
			"invalid configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	return nil
}

// Level is the parsed LogLevel; call after Validate.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
