package main

import (
	"os"
	"path/filepath"
	"testing"

	errs "github.com/jmgilman/go/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	. "github.com/weberc2/simplefs/pkg/types"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simplefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, logrus.WarnLevel, c.Level())
}

func TestLoadConfigLayers(t *testing.T) {
	path := writeConfig(t, "image: disk.img\nblocks: 1000\nblockSize: 1024\n")
	t.Setenv("SIMPLEFS_BLOCKS", "50")
	t.Setenv("SIMPLEFS_LOG_LEVEL", "debug")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "disk.img", c.Image)
	assert.Equal(t, Block(50), c.Blocks)
	assert.Equal(t, Byte(1024), c.BlockSize)
	assert.Equal(t, BackendImage, c.Backend)
	assert.Equal(t, logrus.DebugLevel, c.Level())
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	t.Setenv("SIMPLEFS_CONFIG_FILE", writeConfig(t, "backend: memory\n"))
	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, c.Backend)
}

func TestLoadConfigMissingFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *c)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "imgae: disk.img\n"))
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidConfig, errs.GetCode(err))
	assert.Equal(t, 2, exitCode(err))
}

func TestValidate(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{name: "defaults", modify: func(*Config) {}, valid: true},
		{
			name:   "memory-without-image",
			modify: func(c *Config) { c.Backend = BackendMemory; c.Image = "" },
			valid:  true,
		},
		{
			name:   "image-without-path",
			modify: func(c *Config) { c.Image = "" },
		},
		{
			name:   "unknown-backend",
			modify: func(c *Config) { c.Backend = "floppy" },
		},
		{
			name:   "zero-blocks",
			modify: func(c *Config) { c.Blocks = 0 },
		},
		{
			name:   "block-size-not-multiple-of-inode",
			modify: func(c *Config) { c.BlockSize = 1000 },
		},
		{
			name:   "goose-needs-4k-blocks",
			modify: func(c *Config) { c.Backend = BackendGoose; c.BlockSize = 1024 },
		},
		{
			name:   "goose",
			modify: func(c *Config) { c.Backend = BackendGoose },
			valid:  true,
		},
		{
			name:   "bad-log-level",
			modify: func(c *Config) { c.LogLevel = "loud" },
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			c := Defaults()
			testCase.modify(&c)
			err := c.Validate()
			if testCase.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errs.CodeInvalidConfig, errs.GetCode(err))
		})
	}
}

func TestApp(t *testing.T) {
	image := filepath.Join(t.TempDir(), "disk.img")
	run := func(args ...string) error {
		return app().Run(append(
			[]string{
				appName,
				"--image", image,
				"--blocks", "64",
				"--block-size", "512",
				"--log-level", "error",
			},
			args...,
		))
	}

	require.NoError(t, run("format"))
	require.NoError(t, run("create"))
	require.NoError(t, run("getsize", "1"))
	require.NoError(t, run("debug", "--json"))
	require.NoError(t, run("delete", "1"))
	require.Error(t, run("getsize", "1"))
	require.Error(t, run("delete", "x"))

	info, err := os.Stat(image)
	require.NoError(t, err)
	assert.Equal(t, int64(64*512), info.Size())
}

func TestAppInvalidConfig(t *testing.T) {
	err := app().Run([]string{appName, "--backend", "floppy", "format"})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}
