package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"nodeflow/scene"
)

type Config struct {
	SaveDirectory string  `toml:"save_directory"`
	Confirmations bool    `toml:"confirmations"`
	HistoryLimit  int     `toml:"history_limit"`
	PortRadius    float64 `toml:"port_radius"`
	LogFile       string  `toml:"log_file"`
	LogLevel      string  `toml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		SaveDirectory: "",
		Confirmations: true,
		HistoryLimit:  scene.DefaultHistoryLimit,
		PortRadius:    scene.DefaultPortRadius,
		LogLevel:      "info",
	}
}

// loadConfig reads ~/.nodeflow.toml. A missing file is not an error; a
// broken one is reported alongside the defaults.
func loadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(filepath.Join(homeDir, configFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data, homeDir)
}

func parseConfig(data []byte, homeDir string) (*Config, error) {
	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return defaultConfig(), fmt.Errorf("parse %s: %w", configFileName, err)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.LogFile = expandPath(config.LogFile, homeDir)
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = scene.DefaultHistoryLimit
	}
	if config.PortRadius <= 0 {
		config.PortRadius = scene.DefaultPortRadius
	}
	return config, nil
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger opens the configured log file. The terminal belongs to the UI,
// so without a log file everything is discarded and the returned file is nil.
func (c *Config) newLogger() (*slog.Logger, *os.File, error) {
	if c.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.level()})), f, nil
}
