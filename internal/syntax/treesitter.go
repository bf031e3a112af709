package syntax

import (
	"context"
	"math"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

type grammar struct {
	lang  func() *sitter.Language
	query string
}

var grammars = map[string]grammar{
	"go":       {golang.GetLanguage, goHighlightQuery},
	"bash":     {bash.GetLanguage, bashHighlightQuery},
	"yaml":     {yaml.GetLanguage, yamlHighlightQuery},
	"toml":     {toml.GetLanguage, tomlHighlightQuery},
	"markdown": {tree_sitter_markdown.GetLanguage, markdownHighlightQuery},
}

// captureClasses maps highlight capture names to classes. Captures not
// listed stay plain.
var captureClasses = map[string]Class{
	"comment":     Comment,
	"string":      String,
	"number":      Number,
	"keyword":     Keyword,
	"constant":    Constant,
	"type":        Type,
	"builtin":     Function,
	"function":    Function,
	"operator":    Delimiter,
	"punctuation": Delimiter,
}

// TreeSitter highlights from a syntax tree of the whole document. The tree
// is reparsed synchronously when the document version changes, reusing the
// previous tree when every change since was reported through Edit.
type TreeSitter struct {
	name    string
	parser  *sitter.Parser
	query   *sitter.Query
	tree    *sitter.Tree
	source  []byte
	version int
	first   int
	last    int
	spans   map[int][]Span

	// edited is set once the tree has been adjusted by Edit; length is the
	// document size the adjusted tree describes.
	edited bool
	length int
}

// NewTreeSitter returns a highlighter for the named grammar, or nil when
// there is none.
func NewTreeSitter(name string) *TreeSitter {
	g, ok := grammars[name]
	if !ok {
		return nil
	}
	lang := g.lang()
	query, err := sitter.NewQuery([]byte(g.query), lang)
	if err != nil {
		return nil
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &TreeSitter{name: name, parser: p, query: query, version: -1, first: -1, last: -1}
}

func (t *TreeSitter) Name() string { return t.name }

func (t *TreeSitter) Update(doc Document, version, first, last int) {
	t.source = doc.Contiguous()
	if version != t.version {
		old := t.tree
		if !t.edited || t.length != len(t.source) {
			old = nil
		}
		tree, err := t.parser.ParseCtx(context.Background(), old, t.source)
		if err != nil {
			tree = nil
		}
		t.tree = tree
		t.version = version
		t.edited, t.length = false, len(t.source)
		t.first, t.last = -1, -1
	}
	if first == t.first && last == t.last {
		return
	}
	t.first, t.last = first, last
	t.spans = queryHighlights(t.query, t.tree, t.source, first, last)
}

// Edit adjusts the current tree for a change so the next Update can parse
// incrementally.
func (t *TreeSitter) Edit(e Edit) {
	if t.tree == nil {
		return
	}
	t.tree.Edit(sitter.EditInput{
		StartIndex:  uint32(e.Start),
		OldEndIndex: uint32(e.OldEnd),
		NewEndIndex: uint32(e.NewEnd),
		StartPoint:  point(e.StartPoint),
		OldEndPoint: point(e.OldEndPoint),
		NewEndPoint: point(e.NewEndPoint),
	})
	t.edited = true
	t.length += e.NewEnd - e.OldEnd
}

func point(p Point) sitter.Point {
	return sitter.Point{Row: uint32(p.Row), Column: uint32(p.Col)}
}

func (t *TreeSitter) Line(dst []Span, row int, _ []byte) []Span {
	return append(dst, t.spans[row]...)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	if query == nil || tree == nil || endLine < startLine {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			class, ok := captureClasses[query.CaptureNameForId(capture.Index)]
			if !ok {
				continue
			}
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := max(int(start.Row), startLine); row <= min(int(end.Row), endLine); row++ {
				startCol := 0
				endCol := math.MaxInt32
				if row == int(start.Row) {
					startCol = int(start.Column)
				}
				if row == int(end.Row) {
					endCol = int(end.Column)
				}
				out[row] = append(out[row], Span{Start: startCol, End: endCol, Class: class})
			}
		}
	}
	return out
}
