package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/moffa90/go-cydfu/dfu"
)

// toolConfig holds CLI settings resolved from defaults, the optional TOML
// config file, and flags (in that order of precedence).
type toolConfig struct {
	ResponseTimeout time.Duration
	DataTimeout     time.Duration
	WriteChunkSize  int
	MaxDataLength   int
	LogLevel        string
}

type fileConfig struct {
	ResponseTimeout string `toml:"response_timeout"`
	DataTimeout     string `toml:"data_timeout"`
	WriteChunkSize  int    `toml:"write_chunk_size"`
	MaxDataLength   int    `toml:"max_data_length"`
	LogLevel        string `toml:"log_level"`
}

func defaultToolConfig() toolConfig {
	return toolConfig{
		ResponseTimeout: dfu.DefaultResponseTimeout,
		DataTimeout:     dfu.DefaultDataTimeout,
		WriteChunkSize:  dfu.DefaultWriteChunkSize,
		MaxDataLength:   dfu.DefaultMaxDataLength,
		LogLevel:        "info",
	}
}

func loadToolConfig(path string) (toolConfig, error) {
	cfg := defaultToolConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return toolConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("response_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ResponseTimeout))
		if err != nil {
			return toolConfig{}, fmt.Errorf("parse response_timeout: %w", err)
		}
		cfg.ResponseTimeout = d
	}

	if meta.IsDefined("data_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DataTimeout))
		if err != nil {
			return toolConfig{}, fmt.Errorf("parse data_timeout: %w", err)
		}
		cfg.DataTimeout = d
	}

	if meta.IsDefined("write_chunk_size") {
		cfg.WriteChunkSize = raw.WriteChunkSize
	}

	if meta.IsDefined("max_data_length") {
		cfg.MaxDataLength = raw.MaxDataLength
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// options converts the tool configuration into dfu functional options.
func (c toolConfig) options() []dfu.Option {
	return []dfu.Option{
		dfu.WithResponseTimeout(c.ResponseTimeout),
		dfu.WithDataTimeout(c.DataTimeout),
		dfu.WithWriteChunkSize(c.WriteChunkSize),
		dfu.WithMaxDataLength(c.MaxDataLength),
	}
}
