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
	"bytes"
	"fmt"
	"strings"

	irfmt "github.com/gx-org/loopir/base/fmt"
	"github.com/gx-org/loopir/build/ir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// AxisSpec describes an axis in a manifest.
type AxisSpec struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type,omitempty"`
	Min    int64  `yaml:"min"`
	Extent int64  `yaml:"extent"`
	Role   string `yaml:"role,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	// Transforms overrides the transforms of the manifest for this axis.
	Transforms []string `yaml:"transforms,omitempty"`
}

// Manifest is a set of axes and the transforms a schedule applies to them.
type Manifest struct {
	Axes       []AxisSpec `yaml:"axes"`
	Transforms []string   `yaml:"transforms"`
}

// ParseManifest decodes a YAML manifest. Unknown fields are rejected.
func ParseManifest(src []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	m := &Manifest{}
	if err := dec.Decode(m); err != nil {
		return nil, errors.Wrapf(err, "cannot decode manifest")
	}
	if len(m.Axes) == 0 {
		return nil, errors.Errorf("manifest has no axis")
	}
	return m, nil
}

// build returns the axis described by a spec.
func (s *AxisSpec) build() (*ir.IterVar, error) {
	typ := ir.Int32Type()
	if s.Type != "" {
		var err error
		if typ, err = ir.ParseType(s.Type); err != nil {
			return nil, err
		}
	}
	role := ir.DataPar
	if s.Role != "" {
		var err error
		if role, err = ir.IterVarTypeFromString(s.Role); err != nil {
			return nil, err
		}
	}
	minV, err := ir.MakeConst(typ, s.Min)
	if err != nil {
		return nil, err
	}
	extent, err := ir.MakeConst(typ, s.Extent)
	if err != nil {
		return nil, err
	}
	dom, err := ir.NewRangeMinExtent(minV, extent)
	if err != nil {
		return nil, err
	}
	name := s.Name
	if name == "" {
		name = s.Tag
	}
	return ir.NewIterVar(dom, ir.NewVar(name, typ), role, s.Tag)
}

// AxisReport is the legality of the transforms requested for an axis.
type AxisReport struct {
	Axis    string   `yaml:"axis"`
	Role    string   `yaml:"role"`
	Legal   []string `yaml:"legal,omitempty"`
	Illegal []string `yaml:"illegal,omitempty"`
}

// Check builds the axes of a manifest and checks every requested transform
// against the legality table. The returned error combines all the illegal
// transforms and the axes that could not be built.
func Check(m *Manifest) ([]AxisReport, error) {
	var errs error
	var reports []AxisReport
	for i := range m.Axes {
		spec := &m.Axes[i]
		axis, err := spec.build()
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "axis %d (%s)", i, spec.Name))
			continue
		}
		names := m.Transforms
		if spec.Transforms != nil {
			names = spec.Transforms
		}
		report := AxisReport{Axis: axis.Var().Name(), Role: axis.IterType().String()}
		for _, name := range names {
			tr, err := ir.TransformFromString(name)
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "axis %s", report.Axis))
				continue
			}
			if err := ir.CheckTransform(axis, tr); err != nil {
				report.Illegal = append(report.Illegal, tr.String())
				errs = multierr.Append(errs, err)
				continue
			}
			report.Legal = append(report.Legal, tr.String())
		}
		reports = append(reports, report)
	}
	return reports, errs
}

func formatReports(reports []AxisReport) string {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s (%s)\n", r.Axis, r.Role)
		var lines strings.Builder
		for _, tr := range r.Legal {
			fmt.Fprintf(&lines, "%s: legal\n", tr)
		}
		for _, tr := range r.Illegal {
			fmt.Fprintf(&lines, "%s: illegal\n", tr)
		}
		b.WriteString(irfmt.Indent(lines.String()))
	}
	return b.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest]",
		Short: "Check the legality of loop transforms on a set of axes",
		Long: `Read a YAML manifest of axes and transforms, and report for every axis
which transforms its role allows. The command fails if any requested
transform is illegal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			m, err := ParseManifest(src)
			if err != nil {
				return errors.Wrapf(err, "%s", name)
			}
			opts.Logger().Debug("manifest loaded", "name", name, "axes", len(m.Axes), "transforms", len(m.Transforms))
			reports, checkErr := Check(m)
			if err := output(cmd, opts, formatReports(reports), reports); err != nil {
				return err
			}
			if checkErr != nil {
				for _, err := range multierr.Errors(checkErr) {
					opts.Logger().Debug("check failure", "error", err)
				}
				return errors.Wrapf(checkErr, "%d check failures in %s", len(multierr.Errors(checkErr)), name)
			}
			return nil
		},
	}
}
