package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "spec-check",
		Short: "Validate Rust code against specification markdown files",
		Long: `spec-check keeps Markdown specification documents in sync with the Rust
declarations they describe.

For every .rs file under the source directory it reads the paired .md file
under the spec directory (same relative path, .md extension), extracts the
declarations from its rust code fences and reports:
  - items in code but not in spec, and the reverse
  - signature mismatches (formatting is ignored)
  - attribute mismatches (doc comments are ignored by default)

Settings are read from [package.metadata.spec-check] in Cargo.toml and
SPEC_CHECK_* environment variables; flags override both.

Examples:
  # Check src/ against spec/
  spec-check

  # Check private items too and ignore #[allow(...)] differences
  spec-check --check-private -i allow

  # Re-check whenever a .rs or .md file changes
  spec-check --watch
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	opts.register(cmd)
	return cmd
}
