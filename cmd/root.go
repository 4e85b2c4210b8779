package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "assetplan",
	Short:        "Assign generating machines to a power demand series",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFormat returns the explicit format or the one implied by the output
// file extension.
func resolveFormat(format, out string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		switch strings.ToLower(filepath.Ext(out)) {
		case ".xlsx":
			f = "xlsx"
		case ".json":
			f = "json"
		default:
			f = "csv"
		}
	}
	switch f {
	case "csv", "xlsx", "json":
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// writeOutput writes to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

// siblingPath returns path with its extension replaced by suffix.
func siblingPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
