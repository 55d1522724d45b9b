package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dublyo/buildplan/pkg/app"
	"github.com/dublyo/buildplan/pkg/environment"
	"github.com/dublyo/buildplan/pkg/pkgref"
	"github.com/dublyo/buildplan/pkg/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan [path]",
	Short: "Resolve and print the build plan for an application",
	Long: `Detect the application's provider and print the resolved build plan as
JSON or YAML.

This is useful for:
  - Debugging detection issues
  - Understanding what an external builder will be asked to run
  - Integrating with other tools
  - Customizing the build process before handing the plan off

Environment overrides:
  NIXPACKS_INSTALL_CMD     Override the install command
  NIXPACKS_BUILD_CMD       Override the build command
  NIXPACKS_START_CMD       Override the start command
  NIXPACKS_NIXPKGS_ARCHIVE nixpkgs archive applied when --pin-pkgs is set

Examples:
  buildplan plan ./my-project
  buildplan plan --format yaml ./my-project
  buildplan plan --output plan.json ./my-project
  NIXPACKS_START_CMD="npm start" buildplan plan .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "json", "Output format (json, yaml)")
	cmd.Flags().StringP("output", "o", "", "Write plan to file instead of stdout")
	cmd.Flags().String("plan-file", "", "Merge an existing plan file on top of provider defaults")
	cmd.Flags().StringArray("install-cmd", nil, "Override the install command; repeat for multiple steps")
	cmd.Flags().StringArray("build-cmd", nil, "Override the build command; repeat for multiple steps")
	cmd.Flags().String("start-cmd", "", "Override the start command")
	cmd.Flags().StringArray("pkg", nil, "Additional nix package to install; repeat for multiple")
	cmd.Flags().StringArray("lib", nil, "Additional system library to install; repeat for multiple")
	cmd.Flags().StringArray("apt-pkg", nil, "Additional apt package to install; repeat for multiple")
	cmd.Flags().Bool("pin-pkgs", false, "Pin every setup package to NIXPACKS_NIXPKGS_ARCHIVE")
	cmd.Flags().StringArray("env", nil, "Set an environment variable as KEY=VALUE; repeat for multiple")
}

func init() {
	addPlanFlags(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	opts, err := optionsFromFlags(cmd)
	if err != nil {
		printError("%v", err)
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output")
	cliEnv, _ := cmd.Flags().GetStringArray("env")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(path)
	if err != nil {
		printError("%v", err)
		return err
	}

	env := environment.FromProcess(os.Environ(), cliEnv)
	reporter := &plan.CollectingReporter{}

	p, provider, err := plan.Generate(ctx, a, env, defaultRegistry(), opts, reporter)
	if err != nil {
		printError("plan generation failed: %v", err)
		return err
	}

	for _, notice := range reporter.Notices {
		printVerbose("notice: %s", notice)
	}
	if provider != nil {
		printVerbose("detected provider: %s", provider.Name())
	} else {
		printVerbose("no provider detected")
	}

	var output []byte
	switch strings.ToLower(format) {
	case "yaml", "yml":
		output, err = yaml.Marshal(p)
	default:
		output, err = plan.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, output, 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		printInfo("Plan written to %s", outputFile)
		return nil
	}

	fmt.Println(string(output))
	return nil
}

func optionsFromFlags(cmd *cobra.Command) (plan.GeneratePlanOptions, error) {
	installCmd, _ := cmd.Flags().GetStringArray("install-cmd")
	buildCmd, _ := cmd.Flags().GetStringArray("build-cmd")
	startCmd, _ := cmd.Flags().GetString("start-cmd")
	pkgNames, _ := cmd.Flags().GetStringArray("pkg")
	libs, _ := cmd.Flags().GetStringArray("lib")
	aptPkgs, _ := cmd.Flags().GetStringArray("apt-pkg")
	pinPkgs, _ := cmd.Flags().GetBool("pin-pkgs")
	planFile, _ := cmd.Flags().GetString("plan-file")

	pkgs := make([]pkgref.Pkg, len(pkgNames))
	for i, name := range pkgNames {
		pkgs[i] = pkgref.New(name)
	}

	return plan.GeneratePlanOptions{
		PlanPath:         planFile,
		CustomPkgs:       pkgs,
		CustomLibs:       libs,
		CustomAptPkgs:    aptPkgs,
		CustomInstallCmd: installCmd,
		CustomBuildCmd:   buildCmd,
		CustomStartCmd:   startCmd,
		PinPkgs:          pinPkgs,
	}, nil
}
