// Package providers defines the Provider capability set and the ordered
// registry used to select exactly one provider per application.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package providers

import (
	"context"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
)

// Provider recognizes a language/runtime and supplies plan fragments for it.
// Detect must be pure over (app, env), fast, and side-effect free; every
// other method may read the filesystem but never write it.
type Provider interface {
	// Name is a stable identifier, unique across the registry.
	Name() string

	// Detect reports whether this provider is responsible for app.
	Detect(ctx context.Context, app *app.App, env *environment.Environment) (bool, error)

	Setup(ctx context.Context, app *app.App, env *environment.Environment) (*phase.Setup, error)
	Install(ctx context.Context, app *app.App, env *environment.Environment) (*phase.Install, error)
	Build(ctx context.Context, app *app.App, env *environment.Environment) (*phase.Build, error)
	Start(ctx context.Context, app *app.App, env *environment.Environment) (*phase.Start, error)

	// EnvironmentVariables returns default environment variables to inject.
	EnvironmentVariables(ctx context.Context, app *app.App, env *environment.Environment) (map[string]string, error)
}

// Registry is a fixed, ordered list of providers. Detection selects the
// first provider whose Detect returns true; order is part of the contract.
type Registry struct {
	ordered []Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p to the end of the registry order.
func (r *Registry) Register(p Provider) *Registry {
	r.ordered = append(r.ordered, p)
	return r
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Select returns the first provider in registry order whose Detect returns
// true, short-circuiting on the first match. It returns (nil, false, nil)
// when no provider detects.
func Select(ctx context.Context, r *Registry, a *app.App, env *environment.Environment) (Provider, bool, error) {
	for _, p := range r.ordered {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		ok, err := p.Detect(ctx, a, env)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return p, true, nil
		}
	}
	return nil, false, nil
}
