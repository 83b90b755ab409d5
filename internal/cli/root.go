// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package cli implements the loopir command line tool.
package cli

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RootOptions holds the global flags of all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "yaml"

	logger *slog.Logger
}

// ValidFormats are the output formats of the commands.
var ValidFormats = []string{"text", "yaml"}

// Logger returns the logger of the commands.
// Debug messages are only written with --verbose.
func (opts *RootOptions) Logger() *slog.Logger {
	if opts.logger == nil {
		return slog.Default()
	}
	return opts.logger
}

// NewRootCommand creates the root command of the loopir tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "loopir",
		Short: "loopir - loop IR toolkit",
		Long:  "Format, check and evaluate loop IR listings: iteration domains, axes and reductions.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return errors.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|yaml)")

	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewRolesCommand(opts))
	return cmd
}
