// Package phase defines the four ordered build-plan phases: Setup,
// Install, Build and Start.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License.
package phase

import "github.com/dublyo/buildplan/pkg/pkgref"

// Setup lists the packages, libraries and apt packages needed before
// install/build/start can run.
type Setup struct {
	Pkgs    []pkgref.Pkg `json:"pkgs,omitempty"`
	Libs    []string     `json:"libraries,omitempty"`
	AptPkgs []string     `json:"aptPkgs,omitempty"`
	Archive string       `json:"archive,omitempty"`
	Cmds    []string     `json:"cmds,omitempty"`
}

// NewSetup builds a Setup phase from its dominant field: the package list.
func NewSetup(pkgs ...pkgref.Pkg) *Setup {
	return &Setup{Pkgs: pkgs}
}

// AddPkgs appends packages, preserving order.
func (s *Setup) AddPkgs(pkgs ...pkgref.Pkg) *Setup {
	s.Pkgs = append(s.Pkgs, pkgs...)
	return s
}

// AddLibraries appends library names, preserving order.
func (s *Setup) AddLibraries(libs ...string) *Setup {
	s.Libs = append(s.Libs, libs...)
	return s
}

// AddAptPkgs appends apt package names, preserving order.
func (s *Setup) AddAptPkgs(pkgs ...string) *Setup {
	s.AptPkgs = append(s.AptPkgs, pkgs...)
	return s
}

// AddCmds appends setup commands, preserving order.
func (s *Setup) AddCmds(cmds ...string) *Setup {
	s.Cmds = append(s.Cmds, cmds...)
	return s
}

// Dedup removes duplicate Pkgs by (name, overrides) equality, preserving
// the first occurrence's position.
func (s *Setup) Dedup() *Setup {
	s.Pkgs = pkgref.Dedup(s.Pkgs)
	return s
}

// Install holds the install command and any cache directories it needs.
type Install struct {
	Cmd              string   `json:"cmd,omitempty"`
	CacheDirectories []string `json:"cacheDirectories,omitempty"`
}

// NewInstall builds an Install phase from its dominant field: the command.
func NewInstall(cmd string) *Install {
	return &Install{Cmd: cmd}
}

// AddCacheDirectories appends cache directories, preserving order.
func (i *Install) AddCacheDirectories(dirs ...string) *Install {
	i.CacheDirectories = append(i.CacheDirectories, dirs...)
	return i
}

// Build holds the build command and any cache directories it needs.
type Build struct {
	Cmd              string   `json:"cmd,omitempty"`
	CacheDirectories []string `json:"cacheDirectories,omitempty"`
}

// NewBuild builds a Build phase from its dominant field: the command.
func NewBuild(cmd string) *Build {
	return &Build{Cmd: cmd}
}

// AddCacheDirectories appends cache directories, preserving order.
func (b *Build) AddCacheDirectories(dirs ...string) *Build {
	b.CacheDirectories = append(b.CacheDirectories, dirs...)
	return b
}

// Start holds the run command and an optional run-image override.
type Start struct {
	Cmd      string `json:"cmd,omitempty"`
	RunImage string `json:"runImage,omitempty"`
}

// NewStart builds a Start phase from its dominant field: the command.
func NewStart(cmd string) *Start {
	return &Start{Cmd: cmd}
}

// WithRunImage sets a run-image override.
func (s *Start) WithRunImage(image string) *Start {
	s.RunImage = image
	return s
}
