package cmd

import (
	"fmt"

	"github.com/nikogura/tex-tailor/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Init writes a default configuration to $HOME/.tex-tailor/config.json (or the
path given with --config). Edit it to add your API key and pick a provider.

API keys can also come from ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY,
either in the environment or a .env file in the working directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	_, _ = okColor.Printf("✓ Created config file: %s\n", path)
	fmt.Println("  Set your API key there or in the environment before running 'tex-tailor tailor'.")

	return err
}
