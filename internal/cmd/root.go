// Package cmd provides the CLI for csogen.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/csogen/internal/params"
)

// rootCmd generates the manifests. Flag parsing is left to params.Acquire so
// undeclared flags can become template parameters.
var rootCmd = &cobra.Command{
	Use:   "csogen <version> [previous_version] [flags] [--<param> <value>...]",
	Short: "Generate CSVs for tagged versions",
	Long: `csogen - OLM manifest generator for the container-security-operator

Renders the ClusterServiceVersion and CustomResourceDefinition templates for a
release into deploy/manifests/container-security-operator/<version>/.

The operator image is pulled and pinned to its sha256 digest unless
--skip-pull is given. Any flag not listed below is passed to the templates
as a parameter: --foo-bar baz is available as {{ .foo_bar }}.

Examples:
  csogen v1.2.3 v1.2.2
  csogen v1.2.3 --image quay.io/org/cso:v1.2.3 --downstream
  csogen master --skip-pull --json
  csogen v1.2.3 --k8s-api-version v1beta1 --channel stable`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Shown by --help only; params.Acquire does the parsing.
	rootCmd.Flags().AddFlagSet(params.BaseSchema().FlagSet())
}
