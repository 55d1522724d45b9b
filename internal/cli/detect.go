package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/providers"
)

// detectOutput is the JSON shape of `buildplan detect`.
type detectOutput struct {
	Detected bool   `json:"detected"`
	Provider string `json:"provider,omitempty"`
}

var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Detect the provider for an application without generating a plan",
	Long: `Run provider detection only and report which provider, if any, claimed
the application.

Examples:
  buildplan detect .
  buildplan detect --json ./my-project`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(path)
	if err != nil {
		printError("%v", err)
		return err
	}

	env := environment.FromProcess(os.Environ(), nil)
	provider, ok, err := providers.Select(ctx, defaultRegistry(), a, env)
	if err != nil {
		printError("detection failed: %v", err)
		return err
	}

	if jsonOut {
		out := detectOutput{Detected: ok}
		if ok {
			out.Provider = provider.Name()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !ok {
		printInfo("No provider detected for %s", path)
		return nil
	}
	printSuccess(fmt.Sprintf("Detected %s", provider.Name()))
	return nil
}
