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
package cli

import (
	irfmt "github.com/gx-org/loopir/base/fmt"
	"github.com/gx-org/loopir/build/ir/irstring"
	"github.com/spf13/cobra"
)

// FmtOptions holds the flags of the fmt command.
type FmtOptions struct {
	*RootOptions
	Number bool
}

// FmtResult is the YAML output of the fmt command.
type FmtResult struct {
	Listing string `yaml:"listing"`
	Decls   int    `yaml:"decls"`
	Results int    `yaml:"results"`
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Parse, validate and print a listing",
		Long: `Parse a listing, check the scoping rules of its reductions and print it
back in canonical form. The standard input is read if no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := parseListing(cmd, opts.RootOptions, args)
			if err != nil {
				return err
			}
			text, err := irstring.Listing(listingRoots(listing)...)
			if err != nil {
				return err
			}
			res := FmtResult{Listing: text, Decls: len(listing.Decls), Results: len(listing.Results)}
			if opts.Number {
				text = irfmt.Number(text)
			}
			return output(cmd, opts.RootOptions, text, res)
		},
	}
	cmd.Flags().BoolVarP(&opts.Number, "number", "n", false, "number the lines of the listing")
	return cmd
}
