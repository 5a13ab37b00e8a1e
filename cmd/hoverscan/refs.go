package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refsPage int

var refsCmd = &cobra.Command{
	Use:   "refs <document.json>",
	Short: "List the bibliography entries",
	Long: `Locate the bibliography section and list its entries with their
numbering format, parsed authors and year, and detection confidence. Use
--page to list only the entries starting on one page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		anchors, format := idx.ReferenceAnchors(refsPage)
		if asJSON {
			return emitJSON(cmd, struct {
				Format  string `json:"format"`
				Anchors any    `json:"anchors"`
			}{format.String(), anchors})
		}
		out := cmd.OutOrStdout()
		if section := idx.Bibliography(); section != nil {
			fmt.Fprintf(out, "bibliography: %q starting p.%d, %d entries (%s)\n",
				section.HeadingText, section.StartPage, len(anchors), format)
		} else {
			fmt.Fprintln(out, "no bibliography section found")
		}
		for _, a := range anchors {
			label := a.Text
			if len(label) > 72 {
				label = label[:72] + "..."
			}
			fmt.Fprintf(out, "  [%d] p.%d conf=%.2f", a.Index, a.Page, a.Confidence)
			if a.FirstAuthorLastName != "" {
				fmt.Fprintf(out, " %s %s%s", a.FirstAuthorLastName, a.Year, a.YearSuffix)
			}
			fmt.Fprintf(out, " %s\n", label)
		}
		return nil
	},
}

func init() {
	refsCmd.Flags().IntVarP(&refsPage, "page", "p", 0, "page to list (0 = all)")
}
