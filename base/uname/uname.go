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

// Package uname provides unique names.
package uname

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
)

// Unique generates unique names.
type Unique struct {
	next  map[string]int
	taken map[string]bool
}

// New name generator.
func New() *Unique {
	return &Unique{
		next:  make(map[string]int),
		taken: make(map[string]bool),
	}
}

// Register marks a name as used so that it is never returned by Name.
func (n *Unique) Register(name string) {
	n.taken[name] = true
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique suffix is appended.
func (n *Unique) Name(root string) string {
	if !n.taken[root] {
		n.taken[root] = true
		return root
	}
	nextIndex := max(n.next[root], 1)
	for {
		name := fmt.Sprintf("%s%d", root, nextIndex)
		nextIndex++
		if !n.taken[name] {
			n.next[root] = nextIndex
			n.taken[name] = true
			return name
		}
	}
}

// Ident returns a unique name which is also a valid Go identifier.
// Characters that cannot appear in an identifier are replaced by '_'.
func (n *Unique) Ident(root string) string {
	return n.Name(Sanitize(root))
}

// Sanitize converts a string into a valid, non-keyword, Go identifier.
func Sanitize(s string) string {
	if s == "" {
		return "_v"
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	ident := b.String()
	if token.IsKeyword(ident) || ident == "_" {
		ident = "_" + ident
	}
	return ident
}
