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
package interp

import "github.com/pkg/errors"

// Option configures an interpreter.
type Option func(*Interpreter) error

// DefaultMaxIterations is the default maximum number of iterations
// of a single evaluation.
const DefaultMaxIterations = 1 << 20

// MaxIterations sets the maximum number of iterations of all the
// reductions of a single evaluation.
func MaxIterations(n int) Option {
	return func(itp *Interpreter) error {
		if n <= 0 {
			return errors.Errorf("maximum number of iterations must be positive: got %d", n)
		}
		itp.maxIterations = n
		return nil
	}
}
