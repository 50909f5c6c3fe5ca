// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-undwarf/internal/emit"
	"github.com/petar-djukic/go-undwarf/internal/load"
)

// newDumpCmd creates the "dump" command.
func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <binary>...",
		Short: "Convert DWARF debug information to a construct document",
		Long:  "Dump reads the DWARF debug information of each binary and writes it as a JSON construct document that synth accepts.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := readUnits(args)
			if err != nil {
				return err
			}
			data, err := load.Encode(units)
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output := viper.GetString("output"); output != "" {
				return emit.WriteFile(output, data)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// newValidateCmd creates the "validate" command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>...",
		Short: "Validate construct documents against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := load.NewLoader()
			if err != nil {
				return err
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				if err := loader.Validate(data); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return nil
		},
	}
}
