// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command undwarf rebuilds C and C++ declarations from the debug
// information of compiled binaries or from construct documents.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "undwarf",
		Short:         "Rebuild source declarations from debug information",
		Long:          "undwarf reads DWARF debug information (or construct documents) and writes the types, variables and functions it describes as C, C++ or Go declarations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("format", "cpp", "Output format: cpp, go or json")
	flags.Int("concurrency", 0, "Units synthesized in parallel (0 = GOMAXPROCS)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.Bool("check", false, "Re-parse emitted C/C++ with tree-sitter and report problems")
	flags.String("package", "undwarf", "Package name for Go output")
	flags.Bool("strict", false, "Exit non-zero if any unit is aborted or fails the check")
	flags.StringP("output", "o", "", "Output file, or directory for one file per unit (default stdout)")

	// Bind flags to viper.
	for _, name := range []string{"format", "concurrency", "log-level", "check", "package", "strict", "output"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: UNDWARF_FORMAT, UNDWARF_LOG_LEVEL, etc.
	viper.SetEnvPrefix("UNDWARF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".undwarf")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	rootCmd.AddCommand(newSynthCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr text logger at the named level.
func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print undwarf version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "undwarf %s\n", version)
		},
	}
}
