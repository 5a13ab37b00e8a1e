package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChihshengJ/hover-sub000/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <document.json>",
	Short: "Print the document outline",
	Long: `Print the hierarchical outline of the document. Embedded bookmarks
are used when present; otherwise headings are detected from font size,
style and section numbering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		nodes := idx.Outline()
		if asJSON {
			return emitJSON(cmd, nodes)
		}
		printOutline(cmd, nodes, 0)
		return nil
	},
}

func printOutline(cmd *cobra.Command, nodes []*outline.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s (p.%d)\n", strings.Repeat("  ", depth), n.Title, n.Page)
		printOutline(cmd, n.Children, depth+1)
	}
}
