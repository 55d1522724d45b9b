// Package environment provides an immutable view over process and
// CLI-supplied environment variables.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package environment

import "strings"

// configVarPrefix namespaces the engine's own configuration variables so
// they cannot collide with an arbitrary process environment variable.
const configVarPrefix = "NIXPACKS_"

// Environment is an immutable string-to-string mapping.
type Environment struct {
	vars map[string]string
}

// New builds an Environment from a plain mapping.
func New(vars map[string]string) *Environment {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Environment{vars: copied}
}

// FromProcess builds an Environment from the process environment, with any
// "KEY=VALUE" cliOverrides taking precedence over a process variable of the
// same name.
func FromProcess(processEnv []string, cliOverrides []string) *Environment {
	vars := make(map[string]string, len(processEnv)+len(cliOverrides))
	for _, kv := range processEnv {
		if k, v, ok := splitKV(kv); ok {
			vars[k] = v
		}
	}
	for _, kv := range cliOverrides {
		if k, v, ok := splitKV(kv); ok {
			vars[k] = v
		}
	}
	return &Environment{vars: vars}
}

// Get returns the raw value of name, if set.
func (e *Environment) Get(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// GetConfigVariable looks up "NIXPACKS_" + shortName.
func (e *Environment) GetConfigVariable(shortName string) (string, bool) {
	return e.Get(configVarPrefix + shortName)
}

func splitKV(kv string) (key, value string, ok bool) {
	idx := strings.IndexByte(kv, '=')
	if idx < 0 {
		return "", "", false
	}
	return kv[:idx], kv[idx+1:], true
}
