package cmd

import (
	"ai_copywriter/generator"

	"github.com/spf13/cobra"
)

var (
	variantsIn string
	variantsN  int
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Suggest alternative headlines and call-to-action labels for existing copy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		text, err := readInput(cmd, variantsIn)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		v, err := a.agent.Variants(cmd.Context(), text, variantsN)
		if err != nil {
			return err
		}
		printVariants(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	variantsCmd.Flags().StringVarP(&variantsIn, "in", "i", "-", "Copy file; - reads stdin")
	variantsCmd.Flags().IntVarP(&variantsN, "n", "n", generator.DefaultVariantCount, "How many of each to suggest")
	rootCmd.AddCommand(variantsCmd)
}
