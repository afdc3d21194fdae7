package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"log-analyzer/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"input":           "input",
	"output":          "output",
	"level":           "level",
	"encoding":        "encoding",
	"decode_errors":   "decode-errors",
	"log.level":       "log-level",
	"log.format":      "log-format",
	"log.file":        "log-file",
	"metrics.enabled": "metrics",
	"metrics.addr":    "metrics-addr",
	"metrics.linger":  "metrics-linger",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Count ERROR, WARNING and INFO markers in a log file",
		Long: `analyzer reads a text log file, counts whole-word ERROR, WARNING and INFO
markers (case-insensitive) and writes the counts to a JSON report.

The report destination may be a local path, an s3://bucket/key URL or an
http(s) endpoint. Options come from defaults, an optional config file,
ANALYZER_* environment variables and flags, in increasing precedence.

Examples:
  analyzer --input app.log --output report.json
  analyzer -i app.log --level error
  analyzer -i app.log --metrics --metrics-linger 1m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFiles("."); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				return err
			}
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				return err
			}
			if err := config.Validate(cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "path to YAML or JSON config file (or ANALYZER_CONFIG)")
	flags.StringP("input", "i", d.InputPath, "log file to analyze")
	flags.StringP("output", "o", d.OutputPath, "report destination: path, s3://bucket/key or http(s) URL")
	flags.StringP("level", "l", d.Level, "only count this level (ERROR, WARNING or INFO)")
	flags.String("encoding", d.Encoding, "input text encoding (WHATWG label)")
	flags.String("decode-errors", d.DecodeErrors, "undecodable bytes: ignore, replace or strict")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	flags.String("log-format", d.Log.Format, "log format: json or console")
	flags.String("log-file", d.Log.File, "write logs to this file instead of stderr")
	flags.Bool("metrics", d.Metrics.Enabled, "serve Prometheus metrics while running")
	flags.String("metrics-addr", d.Metrics.Addr, "metrics listen address")
	flags.Duration("metrics-linger", d.Metrics.Linger, "how long to keep serving metrics after the run")

	for key, name := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}
