package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file when no -config flag is given.
const EnvConfigPath = "VOXELCHUNK_CONFIG"

// FileName is the config file looked up in the working and config directories.
const FileName = "voxelchunk.yaml"

// Load builds the chunk, index, spawner and viewer settings with priority
// defaults < file < flags and validates the result. The file is the -config
// flag, then $VOXELCHUNK_CONFIG, then the first of ./voxelchunk.yaml and
// ConfigDir()/voxelchunk.yaml that exists.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	for _, path := range []string{FileName, DefaultPath()} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// DefaultPath is where Save writes and the last place Load looks.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), FileName)
}

// ConfigDir returns the per-user voxelchunk directory for the current OS.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "VoxelChunk")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "VoxelChunk")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voxelchunk")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "voxelchunk")
	}
}

// LoadFile merges a YAML file over the values already in cfg. Sections the
// file leaves out keep their values; an unknown key such as a misspelled
// chunk setting is an error. An empty file changes nothing.
func LoadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
