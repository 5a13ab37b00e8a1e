package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var textPage int

var textCmd = &cobra.Command{
	Use:   "text <document.json>",
	Short: "Dump the text in reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		from, to := pageRange(idx, textPage)
		out := cmd.OutOrStdout()
		if asJSON {
			type pageText struct {
				Page  int      `json:"page"`
				Lines []string `json:"lines"`
			}
			var pages []pageText
			for page := from; page <= to; page++ {
				pt := pageText{Page: page}
				for _, line := range idx.OrderedLines(page) {
					pt.Lines = append(pt.Lines, line.Text)
				}
				pages = append(pages, pt)
			}
			return emitJSON(cmd, pages)
		}
		for page := from; page <= to; page++ {
			fmt.Fprintf(out, "--- page %d ---\n", page)
			for _, line := range idx.OrderedLines(page) {
				fmt.Fprintln(out, line.Text)
			}
		}
		return nil
	},
}

func init() {
	textCmd.Flags().IntVarP(&textPage, "page", "p", 0, "page to dump (0 = all)")
}
