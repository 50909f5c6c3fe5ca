// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/go-undwarf/internal/emit/check"
)

// newCheckCmd creates the "check" command.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Syntax-check C or C++ declaration files",
		Long:  "Check parses each file with tree-sitter and prints syntax errors and records defined twice. Files ending in .c or .h are parsed as C unless --cpp is given.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forceCpp, _ := cmd.Flags().GetBool("cpp")
			out := cmd.OutOrStdout()

			total := 0
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				problems, err := check.Source(cmd.Context(), src, !forceCpp && isCSource(path))
				if err != nil {
					return fmt.Errorf("checking %s: %w", path, err)
				}
				for _, p := range problems {
					fmt.Fprintf(out, "%s:%s\n", path, p)
				}
				total += len(problems)
			}
			if total > 0 {
				return fmt.Errorf("%d problems found", total)
			}
			return nil
		},
	}
	cmd.Flags().Bool("cpp", false, "Parse every file as C++")
	return cmd
}

func isCSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		return true
	}
	return false
}
