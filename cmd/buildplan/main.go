// buildplan synthesizes a provider-agnostic build plan for an application
// directory: detect the language/framework, resolve setup/install/build/start
// commands, and print or save the result.
// Copyright (c) 2026 Dublyo. All rights reserved.
// Licensed under the MIT License. See LICENSE file for details.
//
// This is the main entry point for the buildplan CLI tool.
// For usage information, run: buildplan --help
package main

import (
	"github.com/dublyo/buildplan/internal/cli"
)

func main() {
	cli.Execute()
}
