package cmd

import (
	"fmt"

	"ai_copywriter/generator"

	"github.com/spf13/cobra"
)

var (
	promptSpec  specFlags
	promptPrior string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the assembled generation prompt and its token estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := promptSpec.spec(cmd)
		if err != nil {
			return err
		}
		prior := ""
		if promptPrior != "" {
			if prior, err = readInput(cmd, promptPrior); err != nil {
				return err
			}
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p := generator.BuildGeneratePrompt(spec, prior)
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "=== SYSTEM ===\n%s\n\n=== USER ===\n%s\n\n", p.System, p.User)
		if n, ok := generator.PromptTokens(cfg.LLM.Model, p); ok {
			fmt.Fprintf(w, "=== ~%d prompt tokens (%s) ===\n", n, cfg.LLM.Model)
		} else {
			fmt.Fprintf(w, "=== %d words ===\n", generator.WordCount(p.System)+generator.WordCount(p.User))
		}
		return nil
	},
}

func init() {
	promptSpec.register(promptCmd)
	promptCmd.Flags().StringVar(&promptPrior, "update-from", "", "Embed the copy in this file as the edit anchor")
	rootCmd.AddCommand(promptCmd)
}
