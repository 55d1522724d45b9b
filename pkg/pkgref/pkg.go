// Package pkgref defines the Pkg value type: a nix package reference plus
// any per-invocation overrides (e.g. pinning the node interpreter a
// package manager is built against).
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package pkgref

import "sort"

// Pkg is a named package reference with optional overrides.
type Pkg struct {
	Name      string            `json:"name" validate:"required"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// New returns a Pkg with no overrides.
func New(name string) Pkg {
	return Pkg{Name: name}
}

// SetOverride returns a new Pkg with key set to value; the receiver is
// left unmodified. An existing key is replaced.
func (p Pkg) SetOverride(key, value string) Pkg {
	overrides := make(map[string]string, len(p.Overrides)+1)
	for k, v := range p.Overrides {
		overrides[k] = v
	}
	overrides[key] = value
	return Pkg{Name: p.Name, Overrides: overrides}
}

// Equal reports whether p and other refer to the same package with
// identical overrides.
func (p Pkg) Equal(other Pkg) bool {
	if p.Name != other.Name || len(p.Overrides) != len(other.Overrides) {
		return false
	}
	for k, v := range p.Overrides {
		if other.Overrides[k] != v {
			return false
		}
	}
	return true
}

// String renders the canonical display form: the name alone when there are
// no overrides, or "name{k=v,...}" otherwise, with override keys sorted so
// that semantically equal Pkgs always serialize identically.
func (p Pkg) String() string {
	if len(p.Overrides) == 0 {
		return p.Name
	}
	keys := make([]string, 0, len(p.Overrides))
	for k := range p.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := p.Name + "{"
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += k + "=" + p.Overrides[k]
	}
	return out + "}"
}

// Dedup returns pkgs with duplicates removed by (name, overrides) equality,
// preserving the first occurrence's position.
func Dedup(pkgs []Pkg) []Pkg {
	out := make([]Pkg, 0, len(pkgs))
	for _, p := range pkgs {
		dup := false
		for _, seen := range out {
			if seen.Equal(p) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

