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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// readInput returns the name and the content of the file given as the
// first argument. The standard input is read if there is no argument.
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, errors.Wrapf(err, "cannot read standard input")
		}
		return "stdin", src, nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, errors.WithStack(err)
	}
	return args[0], src, nil
}

// output writes text with the text format or the YAML encoding of data
// with the yaml format.
func output(cmd *cobra.Command, opts *RootOptions, text string, data any) error {
	w := cmd.OutOrStdout()
	if opts.Format != "yaml" {
		_, err := io.WriteString(w, text)
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return errors.Wrapf(err, "cannot encode output")
	}
	return enc.Close()
}
