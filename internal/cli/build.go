package cli

import (
	"github.com/spf13/cobra"

	nperrors "github.com/dublyo/buildplan/internal/errors"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a container image from the resolved plan (not implemented)",
	Long: `buildplan only synthesizes build plans - it does not execute them.

Building a container image from a resolved plan is the job of an external
builder (e.g. a BuildKit frontend or a Dockerfile generator) that consumes
the JSON produced by "buildplan plan". This subcommand exists as a seam
for that integration and always fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	printError("%v", nperrors.ErrBuildNotImplemented)
	return nperrors.ErrBuildNotImplemented
}
