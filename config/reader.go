package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/sybot/logging"
)

// Read reads a config from the given file. Environment variables written as ${NAME} are
// substituted before parsing.
func Read(ctx context.Context, filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(ctx context.Context, originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := &Config{ConfigFilePath: originalPath}
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal config %q", originalPath)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("config read", "path", originalPath, "machine", cfg.Machine.Name,
		"components", len(cfg.Components), "tools", len(cfg.Tools))
	return cfg, nil
}

// Write saves cfg to filePath. Reading the file back yields the same arm.
func Write(filePath string, cfg *Config) error {
	md, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	//nolint:gosec
	return os.WriteFile(filePath, md, 0o644)
}
