package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
	"github.com/KaramelBytes/alsobought-cli/internal/render"
	"github.com/KaramelBytes/alsobought-cli/internal/utils"
)

var (
	recItem   string
	recTopK   int
	recFormat string
	recOutput string
	recFlags  datasetFlags
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <file>",
	Short: "List items most often bought together with an item",
	Example: `  alsobought recommend orders.csv --item "Blue Mug"
  alsobought recommend orders.xlsx --item "Blue Mug" --top-k 5 --format markdown -o recs.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := render.ParseFormat(recFormat)
		if err != nil {
			return err
		}
		k := settings().TopK
		if cmd.Flags().Changed("top-k") {
			if recTopK <= 0 {
				return fmt.Errorf("--top-k must be positive")
			}
			k = recTopK
		}
		model, err := recFlags.load(cmd, path)
		if err != nil {
			return err
		}
		item := recItem
		if item == "" {
			item = model.DefaultItem()
		}
		if len(model.Items) > 0 && !model.Has(item) {
			return fmt.Errorf("%w: %q is not among the %d ranked items\nRun 'alsobought items %s' to list them",
				recommend.ErrUnknownItem, item, len(model.Items), path)
		}
		recs, err := model.Recommend(item, k)
		if err != nil {
			return err
		}
		return writeOutput(cmd, recOutput, "recommendations", func(buf *bytes.Buffer) error {
			return render.Recommendations(buf, format, item, recs)
		})
	},
}

// writeOutput renders into a buffer and sends it to path, or stdout when
// path is empty.
func writeOutput(cmd *cobra.Command, path, what string, fn func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, path)
	return nil
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&recItem, "item", "", "target item (default: most-bought item)")
	recommendCmd.Flags().IntVarP(&recTopK, "top-k", "k", 0, "number of recommendations (default from config: 10)")
	recommendCmd.Flags().StringVarP(&recFormat, "format", "f", "text", "output format: text|markdown|json|csv|html")
	recommendCmd.Flags().StringVarP(&recOutput, "output", "o", "", "optional path to write output")
	recFlags.register(recommendCmd)
}
