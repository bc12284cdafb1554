package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"ai_copywriter/config"
	"ai_copywriter/generator"
	"ai_copywriter/publisher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateSpec       specFlags
	generateStream     bool
	generateNoQA       bool
	generateCritique   bool
	generateVariants   int
	generateUpdateFrom string
	generateOut        string
	generateJSON       bool
	generateShowPlan   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a draft from a campaign brief",
	Example: `  copywriter generate --type email --length short --country AU \
    --trait urgency=9 --hook "60% off today" --offer-price '$119' --out email.md
  copywriter generate --brief-file brief.yaml --stream --critique
  copywriter generate --brief-file brief.yaml --country US --update-from email.md --out email-us.docx`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateSpec.register(generateCmd)
	fs := generateCmd.Flags()
	fs.BoolVar(&generateStream, "stream", false, "Show partial output on stderr while the model writes")
	fs.BoolVar(&generateNoQA, "no-qa", false, "Skip the self-QA pass")
	fs.BoolVar(&generateCritique, "critique", false, "Print a three-bullet critique of the result")
	fs.IntVar(&generateVariants, "variants", 0, "Also suggest N alternative headlines and CTAs")
	fs.StringVar(&generateUpdateFrom, "update-from", "", "Revise the copy in this file against the current inputs")
	fs.StringVarP(&generateOut, "out", "o", "", "Write the copy to a file; format follows the extension (.md, .html, .docx)")
	fs.BoolVar(&generateJSON, "json", false, "Print the full draft as JSON")
	fs.BoolVar(&generateShowPlan, "show-plan", false, "Print the internal plan on stderr")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	spec, err := generateSpec.spec(cmd)
	if err != nil {
		return err
	}
	prior := ""
	if generateUpdateFrom != "" {
		data, err := os.ReadFile(generateUpdateFrom)
		if err != nil {
			return fmt.Errorf("read prior copy: %w", err)
		}
		prior = string(data)
	}

	a, err := newApp(func(c *config.Config) {
		if generateNoQA {
			c.Generation.AutoQA = false
		}
	})
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	var draft generator.Draft
	if generateStream && a.stream {
		ds, err := a.agent.GenerateStream(ctx, spec, prior)
		if err != nil {
			return err
		}
		for chunk := range ds.Chunks() {
			fmt.Fprint(cmd.ErrOrStderr(), chunk)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
		if draft, err = ds.Result(); err != nil {
			return err
		}
	} else {
		if generateStream {
			a.log.Warn("provider does not stream, waiting for the full response", zap.String("provider", a.cfg.LLM.Provider))
		}
		if draft, err = a.agent.Generate(ctx, spec, prior); err != nil {
			return err
		}
	}

	if generateShowPlan && draft.Plan != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "--- plan ---\n%s\n------------\n", draft.Plan)
	}
	if err := emitCopy(cmd.OutOrStdout(), draft, generateOut, generateJSON); err != nil {
		return err
	}

	if generateCritique {
		critique, err := a.agent.Critique(ctx, draft.Copy)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "--- critique ---\n%s\n", critique)
	}
	if generateVariants > 0 {
		v, err := a.agent.Variants(ctx, draft.Copy, generateVariants)
		if err != nil {
			return err
		}
		printVariants(cmd.ErrOrStderr(), v)
	}
	return nil
}

func emitCopy(w io.Writer, draft generator.Draft, out string, asJSON bool) error {
	if out != "" {
		format, err := publisher.WriteFile(out, publisher.NewDocument(draft.Copy, ""))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s (%s, %d words)\n", out, format, generator.WordCount(draft.Copy))
		return nil
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(draft)
	}
	_, err := fmt.Fprintln(w, draft.Copy)
	return err
}

func printVariants(w io.Writer, v generator.Variants) {
	fmt.Fprintln(w, "--- headlines ---")
	for i, h := range v.Headlines {
		fmt.Fprintf(w, "%d. %s\n", i+1, h)
	}
	fmt.Fprintln(w, "--- ctas ---")
	for i, c := range v.CTAs {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}

// readInput reads copy from a file, or stdin when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read copy: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", generator.ErrEmptyCopy
	}
	return text, nil
}
