package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/alsobought-cli/internal/render"
)

var (
	itemsFormat string
	itemsOutput string
	itemsFlags  datasetFlags
)

var itemsCmd = &cobra.Command{
	Use:   "items <file>",
	Short: "List the most-bought items that recommendations are drawn from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(itemsFormat)
		if err != nil {
			return err
		}
		model, err := itemsFlags.load(cmd, args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, itemsOutput, "item ranking", func(buf *bytes.Buffer) error {
			return render.Items(buf, format, model.Items)
		})
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().StringVarP(&itemsFormat, "format", "f", "text", "output format: text|markdown|json|csv|html")
	itemsCmd.Flags().StringVarP(&itemsOutput, "output", "o", "", "optional path to write output")
	itemsFlags.register(itemsCmd)
}
