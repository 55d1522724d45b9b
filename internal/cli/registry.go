package cli

import (
	"github.com/dublyo/buildplan/pkg/providers"
	"github.com/dublyo/buildplan/providers/deno"
	"github.com/dublyo/buildplan/providers/golang"
	"github.com/dublyo/buildplan/providers/node"
	"github.com/dublyo/buildplan/providers/python"
	"github.com/dublyo/buildplan/providers/ruby"
	"github.com/dublyo/buildplan/providers/rust"
	"github.com/dublyo/buildplan/providers/staticfile"
)

// defaultRegistry returns the built-in provider set in detection-precedence
// order: most specific framework heuristics first, the static-file fallback
// last.
func defaultRegistry() *providers.Registry {
	return providers.NewRegistry().
		Register(deno.New()).
		Register(node.New()).
		Register(golang.New()).
		Register(python.New()).
		Register(rust.New()).
		Register(ruby.New()).
		Register(staticfile.New())
}
