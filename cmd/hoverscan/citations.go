package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChihshengJ/hover-sub000/citations"
)

var citationsPage int

var citationsCmd = &cobra.Command{
	Use:   "citations <document.json>",
	Short: "Detect in-text citations",
	Long: `Detect in-text citation markers (numeric, author-year or superscript)
and show which bibliography entries they resolve to. Use --page to limit
the scan to a single page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		from, to := pageRange(idx, citationsPage)
		var all []citations.Citation
		for page := from; page <= to; page++ {
			all = append(all, idx.CitationsForPage(page)...)
		}
		if asJSON {
			return emitJSON(cmd, all)
		}
		out := cmd.OutOrStdout()
		for _, c := range all {
			fmt.Fprintf(out, "p.%d %-11s conf=%.2f %q", c.Page, c.Kind, c.Confidence, c.Text)
			if len(c.RefIndices) > 0 {
				fmt.Fprintf(out, " -> %v", c.RefIndices)
			} else if c.Target != nil {
				fmt.Fprintf(out, " -> %s %s", c.Target.FirstAuthorLastName, c.Target.Year)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%d citations\n", len(all))
		return nil
	},
}

func init() {
	citationsCmd.Flags().IntVarP(&citationsPage, "page", "p", 0, "page to scan (0 = all)")
}
