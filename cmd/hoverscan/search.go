package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <document.json> <query>",
	Short: "Search the document text",
	Long: `Case-insensitive substring search over the reconstructed reading
order. Matches may span line and column boundaries.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		matches := idx.Search(args[1], 1, idx.PageCount())
		if asJSON {
			return emitJSON(cmd, matches)
		}
		out := cmd.OutOrStdout()
		for _, m := range matches {
			r := m.Rects[0]
			fmt.Fprintf(out, "p.%d (%.1f, %.1f) %q\n", m.Page, r.X, r.Top(), m.Text)
		}
		fmt.Fprintf(out, "%d matches\n", len(matches))
		return nil
	},
}
