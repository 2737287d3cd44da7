package event

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// mark is the shared goldmark instance used for tokenizing. Parsing is
// stateless, so a single instance serves all callers.
var mark = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Footnote,
		extension.TaskList,
	),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

// Tokenize parses markdown source into the flat event stream. Streams
// produced here are balanced: every Start has a matching End at the same
// nesting depth.
func Tokenize(source []byte) []Event {
	doc := mark.Parser().Parse(text.NewReader(source))
	t := &tokenizer{source: source, footnotes: map[int]string{}}

	// Definitions carry the footnote label, references only an index.
	// Collect labels up front so references can use them.
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if f, ok := n.(*extast.Footnote); ok && entering {
			t.footnotes[f.Index] = string(f.Ref)
		}
		return ast.WalkContinue, nil
	})

	_ = ast.Walk(doc, t.walk)
	return t.events
}

type tokenizer struct {
	source    []byte
	events    []Event
	footnotes map[int]string
}

func (t *tokenizer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Document, *ast.TextBlock, *extast.FootnoteList:
		// TextBlock is the bare content of tight list items; its children
		// render directly inside the item.

	case *ast.Paragraph:
		t.boundary(entering, Paragraph())

	case *ast.Heading:
		tag := Heading(n.Level)
		tag.ID = attrString(n, "id")
		if cls := attrString(n, "class"); cls != "" {
			tag.Classes = strings.Fields(cls)
		}
		t.boundary(entering, tag)

	case *ast.Blockquote:
		t.boundary(entering, BlockQuote())

	case *ast.FencedCodeBlock:
		tag := FencedCode(string(n.Language(t.source)))
		if entering {
			t.emit(Start(tag), Text(t.blockLines(n)))
			return ast.WalkSkipChildren, nil
		}
		t.emit(End(tag))

	case *ast.CodeBlock:
		if entering {
			t.emit(Start(IndentedCode()), Text(t.blockLines(n)))
			return ast.WalkSkipChildren, nil
		}
		t.emit(End(IndentedCode()))

	case *ast.List:
		tag := BulletList()
		if n.IsOrdered() {
			tag = OrderedList(uint64(n.Start))
		}
		t.boundary(entering, tag)

	case *ast.ListItem:
		t.boundary(entering, ListItem())

	case *ast.ThematicBreak:
		if entering {
			t.emit(ThematicBreak())
		}
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			if s := n.Segment.Value(t.source); len(s) > 0 {
				t.emit(Text(string(s)))
			}
			if n.HardLineBreak() {
				t.emit(HardBreak())
			} else if n.SoftLineBreak() {
				t.emit(SoftBreak())
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.String:
		if entering && len(n.Value) > 0 {
			t.emit(Text(string(n.Value)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeSpan:
		if entering {
			t.emit(InlineCode(t.codeSpanText(n)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		tag := Emphasis()
		if n.Level >= 2 {
			tag = Strong()
		}
		t.boundary(entering, tag)

	case *extast.Strikethrough:
		t.boundary(entering, Strikethrough())

	case *ast.Link:
		t.boundary(entering, Link(LinkInline, string(n.Destination), string(n.Title)))

	case *ast.AutoLink:
		if entering {
			kind := LinkAuto
			url := string(n.URL(t.source))
			if n.AutoLinkType == ast.AutoLinkEmail {
				kind = LinkEmail
				if !strings.HasPrefix(url, "mailto:") {
					url = "mailto:" + url
				}
			}
			tag := Link(kind, url, "")
			t.emit(Start(tag), Text(string(n.Label(t.source))), End(tag))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		// Children are the alt text inlines and stay inside the span.
		t.boundary(entering, Image(LinkInline, string(n.Destination), string(n.Title)))

	case *ast.RawHTML:
		if entering {
			t.emit(RawMarkup(t.segmentsText(n.Segments)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			var b strings.Builder
			b.WriteString(t.blockLines(n))
			if n.HasClosure() {
				b.Write(n.ClosureLine.Value(t.source))
			}
			t.emit(RawMarkup(b.String()))
		}
		return ast.WalkSkipChildren, nil

	case *extast.Table:
		t.boundary(entering, Table(alignments(n.Alignments)))

	case *extast.TableHeader:
		// The header's children are bare cells; wrap them in a row so the
		// head section has the same shape as the body.
		if entering {
			t.emit(Start(TableHead()), Start(TableRow()))
		} else {
			t.emit(End(TableRow()), End(TableHead()))
		}

	case *extast.TableRow:
		t.boundary(entering, TableRow())

	case *extast.TableCell:
		t.boundary(entering, TableCell())

	case *extast.TaskCheckBox:
		if entering {
			t.emit(TaskMarker(n.IsChecked))
		}
		return ast.WalkSkipChildren, nil

	case *extast.FootnoteLink:
		if entering {
			id, ok := t.footnotes[n.Index]
			if !ok {
				id = strconv.Itoa(n.Index)
			}
			t.emit(FootnoteRef(id))
		}
		return ast.WalkSkipChildren, nil

	case *extast.FootnoteBacklink:
		return ast.WalkSkipChildren, nil

	case *extast.Footnote:
		t.boundary(entering, FootnoteDefinition(string(n.Ref)))
	}

	return ast.WalkContinue, nil
}

func (t *tokenizer) emit(events ...Event) {
	t.events = append(t.events, events...)
}

func (t *tokenizer) boundary(entering bool, tag Tag) {
	if entering {
		t.emit(Start(tag))
	} else {
		t.emit(End(tag))
	}
}

// blockLines joins the raw source lines of a block node, trailing
// newlines included.
func (t *tokenizer) blockLines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(t.source))
	}
	return b.String()
}

func (t *tokenizer) segmentsText(segments *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		b.Write(seg.Value(t.source))
	}
	return b.String()
}

// codeSpanText flattens the children of a code span. Line endings inside a
// span are treated as spaces.
func (t *tokenizer) codeSpanText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(t.source))
		case *ast.String:
			b.Write(c.Value)
		}
	}
	return strings.ReplaceAll(b.String(), "\n", " ")
}

func attrString(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	return ""
}

func alignments(in []extast.Alignment) []Alignment {
	out := make([]Alignment, len(in))
	for i, a := range in {
		switch a {
		case extast.AlignLeft:
			out[i] = AlignLeft
		case extast.AlignCenter:
			out[i] = AlignCenter
		case extast.AlignRight:
			out[i] = AlignRight
		default:
			out[i] = AlignNone
		}
	}
	return out
}
