package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	hover "github.com/ChihshengJ/hover-sub000"
	"github.com/ChihshengJ/hover-sub000/engine"
)

var asJSON bool

var rootCmd = &cobra.Command{
	Use:   "hoverscan",
	Short: "Analyze the structure of a document dump",
	Long: `Hoverscan runs document structure analysis over a JSON page dump
produced by an engine-side exporter: reading order, bibliography
segmentation, in-text citations, cross-references and outline synthesis.

The dump format matches engine.MemoryDocument: per-page text runs with
positions and fonts, link annotations, named destinations and bookmarks.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&asJSON, "json", "j", false, "emit JSON instead of text")

	rootCmd.AddCommand(outlineCmd, refsCmd, citationsCmd, crossrefsCmd, searchCmd, textCmd)
}

// loadIndex loads a document dump and builds the full index.
func loadIndex(cmd *cobra.Command, path string) (*hover.DocumentIndex, error) {
	doc, err := engine.LoadJSONFile(path)
	if err != nil {
		return nil, err
	}
	idx, err := hover.New(doc, hover.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if err := idx.BuildIndex(cmd.Context(), nil); err != nil {
		return nil, err
	}
	return idx, nil
}

// emitJSON writes v as indented JSON to the command's stdout.
func emitJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// pageRange resolves the --page flag: 0 means every page.
func pageRange(idx *hover.DocumentIndex, page int) (from, to int) {
	if page > 0 {
		return page, page
	}
	return 1, idx.PageCount()
}
