// Package ruby detects and plans Ruby on Rails applications.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package ruby

import (
	"context"
	"strings"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/phase"
	"github.com/dublyo/buildplan/pkg/pkgref"
)

// Provider detects Ruby on Rails applications by a rails gem in Gemfile.
type Provider struct{}

// New returns a Ruby provider.
func New() *Provider { return &Provider{} }

// Name implements providers.Provider.
func (Provider) Name() string { return "ruby" }

// Detect implements providers.Provider.
func (Provider) Detect(_ context.Context, a *app.App, _ *environment.Environment) (bool, error) {
	if !a.IncludesFile("Gemfile") {
		return false, nil
	}
	content, err := a.ReadFile("Gemfile")
	if err != nil {
		return false, nil
	}
	return strings.Contains(content, "rails"), nil
}

// Setup implements providers.Provider.
func (Provider) Setup(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Setup, error) {
	version := rubyVersion(a)
	s := phase.NewSetup(pkgref.New("ruby_" + strings.ReplaceAll(version, ".", "_")))
	if database(a) == "postgresql" {
		s.AddAptPkgs("libpq-dev")
	} else if database(a) == "mysql" {
		s.AddAptPkgs("default-libmysqlclient-dev")
	}
	return s, nil
}

// Install implements providers.Provider.
func (Provider) Install(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Install, error) {
	return phase.NewInstall("bundle install").AddCacheDirectories("vendor/bundle"), nil
}

// Build implements providers.Provider.
func (Provider) Build(_ context.Context, a *app.App, _ *environment.Environment) (*phase.Build, error) {
	if hasAssets(a) {
		return phase.NewBuild("bundle exec rails assets:precompile"), nil
	}
	return nil, nil
}

// Start implements providers.Provider.
func (Provider) Start(_ context.Context, _ *app.App, _ *environment.Environment) (*phase.Start, error) {
	return phase.NewStart("bundle exec rails server -b 0.0.0.0 -p 3000"), nil
}

// EnvironmentVariables implements providers.Provider.
func (Provider) EnvironmentVariables(_ context.Context, a *app.App, _ *environment.Environment) (map[string]string, error) {
	vars := map[string]string{"RAILS_ENV": "production", "RAILS_LOG_TO_STDOUT": "true"}
	if db := database(a); db != "" {
		vars["RAILS_DATABASE"] = db
	}
	return vars, nil
}

func rubyVersion(a *app.App) string {
	if content, err := a.ReadFile(".ruby-version"); err == nil {
		version := strings.TrimPrefix(strings.TrimSpace(content), "ruby-")
		if version != "" {
			return version
		}
	}

	if content, err := a.ReadFile("Gemfile"); err == nil {
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "ruby") {
				continue
			}
			if v := betweenQuotes(trimmed, '"'); v != "" {
				return v
			}
			if v := betweenQuotes(trimmed, '\''); v != "" {
				return v
			}
		}
	}

	return "3.3"
}

func betweenQuotes(s string, quote byte) string {
	parts := strings.Split(s, string(quote))
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

func database(a *app.App) string {
	content, err := a.ReadFile("Gemfile")
	if err != nil {
		return ""
	}
	switch {
	case strings.Contains(content, "pg"), strings.Contains(content, "postgresql"):
		return "postgresql"
	case strings.Contains(content, "mysql2"):
		return "mysql"
	case strings.Contains(content, "sqlite"):
		return "sqlite"
	default:
		return ""
	}
}

func hasAssets(a *app.App) bool {
	if a.IncludesDir("app/assets") {
		return true
	}
	content, err := a.ReadFile("Gemfile")
	return err == nil && strings.Contains(content, "sprockets")
}
