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
	"fmt"
	"strings"

	"github.com/gx-org/loopir/build/ir"
	"github.com/spf13/cobra"
)

// RoleLegality lists the transforms disallowed on axes with a role.
type RoleLegality struct {
	Role       string   `yaml:"role"`
	Disallowed []string `yaml:"disallowed"`
}

// LegalityTable returns the legality table, one entry per role.
func LegalityTable() []RoleLegality {
	var table []RoleLegality
	for _, role := range ir.IterVarTypes() {
		entry := RoleLegality{Role: role.String(), Disallowed: []string{}}
		for _, tr := range ir.Disallowed(role).Transforms() {
			entry.Disallowed = append(entry.Disallowed, tr.String())
		}
		table = append(table, entry)
	}
	return table
}

func formatTable(table []RoleLegality) string {
	width := 0
	for _, entry := range table {
		width = max(width, len(entry.Role))
	}
	var b strings.Builder
	for _, entry := range table {
		fmt.Fprintf(&b, "%-*s  {%s}\n", width, entry.Role, strings.Join(entry.Disallowed, ", "))
	}
	return b.String()
}

// NewRolesCommand creates the roles command.
func NewRolesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Print the transforms disallowed for each axis role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := LegalityTable()
			return output(cmd, opts, formatTable(table), table)
		},
	}
}
