package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	errs "github.com/jmgilman/go/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/fs"
	. "github.com/weberc2/simplefs/pkg/types"
)

// Env is what every command action gets to work with.
type Env struct {
	Config   *Config
	Logger   *logrus.Logger
	FS       *fs.FileSystem
	Volume   *fs.Volume
	Host     billy.Filesystem
	counting *disk.Counting
	closer   io.Closer
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	c, err := LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("image") {
		c.Image = ctx.String("image")
	}
	if ctx.IsSet("backend") {
		c.Backend = ctx.String("backend")
	}
	if ctx.IsSet("blocks") {
		c.Blocks = Block(ctx.Uint("blocks"))
	}
	if ctx.IsSet("block-size") {
		c.BlockSize = Byte(ctx.Int64("block-size"))
	}
	if ctx.IsSet("log-level") {
		c.LogLevel = ctx.String("log-level")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLogger(c *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(c.Level())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}

func openDisk(c *Config) (disk.Disk, io.Closer, error) {
	switch c.Backend {
	case BackendMemory:
		return disk.NewMemory(c.Blocks, c.BlockSize), nil, nil
	case BackendGoose:
		d, err := disk.OpenGooseFile(c.Image, c.Blocks)
		if err != nil {
			return nil, nil, err
		}
		return d, d, nil
	case BackendImage:
		path, err := filepath.Abs(c.Image)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving image path: %w", err)
		}
		d, err := disk.OpenImage(
			osfs.New(filepath.Dir(path)),
			filepath.Base(path),
			c.Blocks,
			c.BlockSize,
		)
		if err != nil {
			return nil, nil, err
		}
		return d, d, nil
	default:
		return nil, nil, errs.Newf(
			errs.CodeInvalidConfig,
			"unknown backend `%s`",
			c.Backend,
		)
	}
}

func openEnv(ctx *cli.Context) (*Env, error) {
	c, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := newLogger(c)
	d, closer, err := openDisk(c)
	if err != nil {
		return nil, fmt.Errorf("opening disk: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"backend":    c.Backend,
		"image":      c.Image,
		"blocks":     c.Blocks,
		"block_size": c.BlockSize,
	}).Debug("opened disk")

	wd, err := os.Getwd()
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	counting := disk.NewCounting(d)
	return &Env{
		Config:   c,
		Logger:   logger,
		FS:       fs.New(counting, fs.WithLogger(logger)),
		Host:     osfs.New(wd),
		counting: counting,
		closer:   closer,
	}, nil
}

func (env *Env) Close() error {
	env.Logger.WithFields(logrus.Fields{
		"reads":  env.counting.Reads(),
		"writes": env.counting.Writes(),
	}).Info("disk statistics")
	if env.Volume != nil {
		if err := env.Volume.Unmount(); err != nil {
			env.Logger.WithError(err).Warn("unmounting volume")
		}
	}
	if env.closer != nil {
		if err := env.closer.Close(); err != nil {
			return fmt.Errorf("closing disk: %w", err)
		}
	}
	return nil
}

// withFileSystem opens the configured disk for the duration of `f`. If
// `mount` is set the file system is mounted first.
func withFileSystem(
	mount bool,
	f func(*Env, *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) (err error) {
		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := env.Close(); err == nil {
				err = closeErr
			}
		}()
		if mount {
			if env.Volume, err = env.FS.Mount(); err != nil {
				return fmt.Errorf("mount failed: %w", err)
			}
		}
		return f(env, ctx)
	}
}
