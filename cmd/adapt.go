package cmd

import (
	"ai_copywriter/generator"

	"github.com/spf13/cobra"
)

var (
	adaptFrom string
	adaptTo   string
	adaptIn   string
	adaptOut  string
)

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Rewrite copy for another market's spelling, currency and index",
	Example: `  copywriter adapt --from AU --to US --in email.md --out email-us.md
  cat email.md | copywriter adapt --from AU --to UK`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		source, err := generator.ParseCountry(adaptFrom)
		if err != nil {
			return err
		}
		target, err := generator.ParseCountry(adaptTo)
		if err != nil {
			return err
		}
		text, err := readInput(cmd, adaptIn)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		out, err := a.agent.Adapt(cmd.Context(), text, source, target)
		if err != nil {
			return err
		}
		return emitCopy(cmd.OutOrStdout(), generator.Draft{Copy: out}, adaptOut, false)
	},
}

func init() {
	adaptCmd.Flags().StringVar(&adaptFrom, "from", "Australia", "Source market")
	adaptCmd.Flags().StringVar(&adaptTo, "to", "", "Target market")
	adaptCmd.Flags().StringVarP(&adaptIn, "in", "i", "-", "Copy to adapt; - reads stdin")
	adaptCmd.Flags().StringVarP(&adaptOut, "out", "o", "", "Write the result to a file (.md, .html, .docx)")
	_ = adaptCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(adaptCmd)
}
