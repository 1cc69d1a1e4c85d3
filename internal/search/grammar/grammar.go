// Package grammar adapts the real github.com/tree-sitter/go-tree-sitter
// bindings (and one grammar module per supported language) to the
// search.Grammar/Tree/Query interfaces.
package grammar

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/g3labs/g3/internal/search"
)

// treeSitterGrammar wraps one compiled tree-sitter Language.
type treeSitterGrammar struct {
	lang *tree_sitter.Language
}

// Defaults returns the four grammars named in the spec's language set,
// ready to hand to search.NewEngine.
func Defaults() map[search.Language]search.Grammar {
	return map[search.Language]search.Grammar{
		search.LangRust:       &treeSitterGrammar{lang: tree_sitter.NewLanguage(tree_sitter_rust.Language())},
		search.LangPython:     &treeSitterGrammar{lang: tree_sitter.NewLanguage(tree_sitter_python.Language())},
		search.LangJavaScript: &treeSitterGrammar{lang: tree_sitter.NewLanguage(tree_sitter_javascript.Language())},
		search.LangTypeScript: &treeSitterGrammar{lang: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())},
	}
}

func (g *treeSitterGrammar) Parse(source []byte) (search.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(g.lang); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse produced no tree")
	}
	return &tsTree{tree: tree, lang: g.lang}, nil
}

func (g *treeSitterGrammar) Compile(query string) (search.Query, error) {
	q, qerr := tree_sitter.NewQuery(g.lang, query)
	if qerr != nil {
		return nil, fmt.Errorf("compile query: %v", qerr)
	}
	return &tsQuery{query: q}, nil
}

type tsQuery struct {
	query *tree_sitter.Query
}

func (q *tsQuery) Close() { q.query.Close() }

type tsTree struct {
	tree *tree_sitter.Tree
	lang *tree_sitter.Language
}

func (t *tsTree) Close() { t.tree.Close() }

// Execute runs query over t's root node, capturing each match's primary
// captured node as the match text plus the full capture-name -> text map.
func (t *tsTree) Execute(query search.Query, source []byte) ([]search.Match, error) {
	tq, ok := query.(*tsQuery)
	if !ok {
		return nil, fmt.Errorf("query is not a tree-sitter query")
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(tq.query, t.tree.RootNode(), source)

	var out []search.Match
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		if len(m.Captures) == 0 {
			continue
		}

		captures := make(map[string]string, len(m.Captures))
		for _, c := range m.Captures {
			name := tq.query.CaptureNames()[c.Index]
			captures[name] = c.Node.Utf8Text(source)
		}

		primary := m.Captures[0].Node
		start := primary.StartPosition()
		out = append(out, search.Match{
			Line:     int(start.Row) + 1,
			Column:   int(start.Column),
			Text:     primary.Utf8Text(source),
			Captures: captures,
		})
	}
	return out, nil
}
