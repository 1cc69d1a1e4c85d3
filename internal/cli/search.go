package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/g3labs/g3/internal/diffapply"
	"github.com/g3labs/g3/internal/search"
	"github.com/g3labs/g3/internal/search/grammar"
)

var (
	searchQuery       string
	searchLanguage    string
	searchName        string
	searchPaths       []string
	searchContext     int
	searchConcurrency int
	searchMaxMatches  int
	searchBatchFile   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a syntax-aware tree-sitter code search",
	Long: `search runs one (or, via --batch-file, many) tree-sitter query
against a file tree and prints the matches. --batch-file takes a JSON
document shaped like search.Request, for running several named queries in
one bounded-concurrency pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req search.Request
		if searchBatchFile != "" {
			data, err := os.ReadFile(searchBatchFile)
			if err != nil {
				return fmt.Errorf("read batch file: %w", err)
			}
			// LLM-authored batch documents occasionally mix in single-quoted
			// string literals; repair them before handing the document to
			// the JSON decoder.
			fixed := diffapply.FixMixedQuotesInJSON(string(data))
			if err := json.Unmarshal([]byte(fixed), &req); err != nil {
				return fmt.Errorf("parse batch file: %w", err)
			}
		} else {
			if searchQuery == "" {
				return fmt.Errorf("--query is required unless --batch-file is given")
			}
			paths := searchPaths
			if len(paths) == 0 {
				paths = []string{"."}
			}
			req = search.Request{
				ID: search.NewRequestID(),
				Searches: []search.Spec{{
					Name:         searchName,
					Query:        searchQuery,
					Language:     search.Language(searchLanguage),
					Paths:        paths,
					ContextLines: searchContext,
				}},
				MaxConcurrency:      searchConcurrency,
				MaxMatchesPerSearch: searchMaxMatches,
			}
		}

		engine := search.NewEngine(grammar.Defaults())
		resp := engine.Run(context.Background(), req)
		printSearchResponse(resp)
		return nil
	},
}

func printSearchResponse(resp search.Response) {
	for _, r := range resp.Searches {
		fmt.Printf("== %s ==\n", r.Name)
		if r.Error != "" {
			fmt.Printf("  error: %s\n", r.Error)
			continue
		}
		for _, m := range r.Matches {
			fmt.Printf("  %s:%d:%d: %s\n", m.File, m.Line, m.Column, m.Text)
			if m.Context != "" {
				fmt.Println(indent(m.Context, "    "))
			}
		}
		fmt.Printf("  (%d matches across %d files)\n", r.MatchCount, r.FilesSearched)
	}
	fmt.Printf("Total: %d matches across %d files searched\n", resp.TotalMatches, resp.TotalFilesSearched)
}

func indent(s, prefix string) string {
	out := prefix
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += prefix
		}
	}
	return out
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "tree-sitter S-expression query")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "rust|python|javascript|typescript")
	searchCmd.Flags().StringVar(&searchName, "name", "search", "name for this search's results")
	searchCmd.Flags().StringSliceVar(&searchPaths, "path", nil, "paths to search (repeatable, default '.')")
	searchCmd.Flags().IntVar(&searchContext, "context", 0, "lines of context around each match")
	searchCmd.Flags().IntVar(&searchConcurrency, "concurrency", 0, "max concurrent searches in a batch (default 4)")
	searchCmd.Flags().IntVar(&searchMaxMatches, "max-matches", 0, "max matches per search (default 500)")
	searchCmd.Flags().StringVar(&searchBatchFile, "batch-file", "", "JSON search.Request document for a multi-query batch")
	rootCmd.AddCommand(searchCmd)
}
