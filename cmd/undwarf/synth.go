// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-undwarf/internal/emit"
	"github.com/petar-djukic/go-undwarf/internal/emit/check"
	"github.com/petar-djukic/go-undwarf/internal/emit/cpp"
	"github.com/petar-djukic/go-undwarf/pkg/types"
	"github.com/petar-djukic/go-undwarf/pkg/undwarf"
)

// newSynthCmd creates the "synth" command.
func newSynthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synth <binary|document.json>...",
		Short: "Rebuild declarations",
		Long:  "Synth reads each input, rebuilds the declarations of every compilation unit and writes them in the selected format.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSynth,
	}
}

// runSynth executes the synthesis.
func runSynth(cmd *cobra.Command, args []string) error {
	format, err := emit.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}
	units, err := readUnits(args)
	if err != nil {
		return err
	}

	s, err := undwarf.New(undwarf.Config{
		Concurrency: viper.GetInt("concurrency"),
		Logger:      slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx := cmd.Context()
	results, err := s.Run(ctx, units)
	if err != nil {
		return err
	}

	problems := 0
	if viper.GetBool("check") {
		if problems, err = checkResults(ctx, results); err != nil {
			return err
		}
	}

	files, err := renderResults(results, format, viper.GetString("package"))
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), viper.GetString("output"), format, files); err != nil {
		return err
	}

	failed := undwarf.Failed(results)
	if viper.GetBool("strict") && (failed > 0 || problems > 0) {
		return fmt.Errorf("%d of %d units aborted, %d check problems", failed, len(results), problems)
	}
	return nil
}

// unitFile is the rendering of one unit.
type unitFile struct {
	unit string
	c    bool
	data []byte
}

// renderResults renders every unit that was not aborted. JSON output also
// carries aborted units, with their error and diagnostics.
func renderResults(results []undwarf.UnitResult, format emit.Format, pkg string) ([]unitFile, error) {
	var files []unitFile
	for _, r := range results {
		c := types.IsCLanguage(r.Language)
		if format == emit.FormatJSON {
			data, err := json.MarshalIndent(newUnitDoc(r), "", "  ")
			if err != nil {
				return nil, fmt.Errorf("encoding unit %s: %w", r.Unit, err)
			}
			files = append(files, unitFile{unit: r.Unit, c: c, data: data})
			continue
		}
		if r.Err != nil {
			continue
		}
		data, err := emit.Render(r.Tree, format, emit.Options{C: c, Package: pkg})
		if err != nil {
			return nil, err
		}
		files = append(files, unitFile{unit: r.Unit, c: c, data: data})
	}
	return files, nil
}

// checkResults re-parses the C/C++ rendering of every unit and logs what
// the parser rejects. It returns the number of problems.
func checkResults(ctx context.Context, results []undwarf.UnitResult) (int, error) {
	total := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		c := types.IsCLanguage(r.Language)
		problems, err := check.Source(ctx, []byte(cpp.Render(r.Tree, cpp.Options{C: c})), c)
		if err != nil {
			return total, fmt.Errorf("checking unit %s: %w", r.Unit, err)
		}
		for _, p := range problems {
			slog.Warn("emitted source rejected",
				slog.String("unit", r.Unit),
				slog.Int("line", p.Line),
				slog.Int("column", p.Column),
				slog.String("problem", p.Message),
			)
		}
		total += len(problems)
	}
	return total, nil
}
