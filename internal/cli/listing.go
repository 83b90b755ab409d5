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
	"github.com/gx-org/loopir/build/fmterr"
	"github.com/gx-org/loopir/build/ir"
	"github.com/gx-org/loopir/build/irparse"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// parseListing reads, parses and validates the listing given as argument.
func parseListing(cmd *cobra.Command, opts *RootOptions, args []string) (*irparse.Listing, error) {
	name, src, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	listing, err := irparse.Parse(name, string(src))
	if err != nil {
		logParseErrors(opts, err)
		return nil, err
	}
	opts.Logger().Debug("listing parsed", "name", name, "decls", len(listing.Decls), "results", len(listing.Results))
	if err := ir.Validate(listingRoots(listing)...); err != nil {
		return nil, errors.Wrapf(err, "invalid listing %s", name)
	}
	return listing, nil
}

// logParseErrors logs the position of every error found in a listing.
func logParseErrors(opts *RootOptions, err error) {
	var set *fmterr.Errors
	if !errors.As(err, &set) {
		return
	}
	for _, err := range set.Errors() {
		var posErr fmterr.ErrorWithPos
		if !errors.As(err, &posErr) {
			continue
		}
		pos := posErr.Pos()
		opts.Logger().Debug("listing error", "file", pos.Filename, "line", pos.Line, "column", pos.Column)
	}
}

// listingRoots returns the declarations followed by the results of a listing.
func listingRoots(listing *irparse.Listing) []ir.Node {
	roots := make([]ir.Node, 0, len(listing.Decls)+len(listing.Results))
	roots = append(roots, listing.Decls...)
	for _, res := range listing.Results {
		roots = append(roots, res)
	}
	return roots
}
