package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChihshengJ/hover-sub000/crossref"
)

var (
	crossrefsPage int
	crossrefsDefs bool
)

var crossrefsCmd = &cobra.Command{
	Use:   "crossrefs <document.json>",
	Short: "Detect internal cross-references",
	Long: `Detect mentions of figures, tables, sections, equations and the like,
and resolve each to its definition (caption or heading). With --defs only
the definitions themselves are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loadIndex(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if crossrefsDefs {
			defs := idx.CrossRefDefinitions()
			if asJSON {
				return emitJSON(cmd, defs)
			}
			for _, d := range defs {
				fmt.Fprintf(out, "p.%d %s %s conf=%.2f %q\n", d.Page, d.Kind, d.TargetID, d.Confidence, d.Text)
			}
			fmt.Fprintf(out, "%d definitions\n", len(defs))
			return nil
		}
		from, to := pageRange(idx, crossrefsPage)
		var all []crossref.Reference
		for page := from; page <= to; page++ {
			all = append(all, idx.CrossReferencesForPage(page)...)
		}
		if asJSON {
			return emitJSON(cmd, all)
		}
		for _, r := range all {
			fmt.Fprintf(out, "p.%d %s %s conf=%.2f", r.Page, r.Kind, r.TargetID, r.Confidence)
			if r.Target != nil {
				fmt.Fprintf(out, " -> p.%d", r.Target.Page)
			} else {
				fmt.Fprint(out, " (unresolved)")
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%d references\n", len(all))
		return nil
	},
}

func init() {
	crossrefsCmd.Flags().IntVarP(&crossrefsPage, "page", "p", 0, "page to scan (0 = all)")
	crossrefsCmd.Flags().BoolVar(&crossrefsDefs, "defs", false, "list definitions instead of references")
}
