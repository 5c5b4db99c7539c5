// Package scan is a syntax-only pre-pass over C++ sources. It spots the
// annotation macros without preprocessing, letting the driver skip the full
// semantic parse for sources that mark nothing. It never replaces the
// indexing library: a hit only means the source is worth parsing.
package scan

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// markerQuery captures every identifier-shaped token; the annotation macros
// surface as plain, type or expression identifiers depending on position.
const markerQuery = `
	(identifier) @id
	(type_identifier) @id
`

var markers = map[string]struct{}{
	"LEON":    {},
	"LEON_KV": {},
	"LEON_V":  {},
}

// HasAnnotations reports whether the source text mentions any annotation
// macro.
func HasAnnotations(source []byte) (bool, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return false, fmt.Errorf("failed to scan source: %w", err)
	}

	query, err := sitter.NewQuery([]byte(markerQuery), cpp.GetLanguage())
	if err != nil {
		return false, fmt.Errorf("failed to create scan query: %w", err)
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	for {
		m, ok := qc.NextMatch()
		if !ok {
			return false, nil
		}
		for _, c := range m.Captures {
			if _, ok := markers[c.Node.Content(source)]; ok {
				return true, nil
			}
		}
	}
}
