// Package render turns flat markdown event streams into document trees.
//
// Rendering is a single left-to-right pass over the stream. Every opening
// tag hands off to a depth-tracking span matcher, the extracted inner span
// renders recursively, and the result wraps in a node whose role derives
// from the tag. Recursion depth is therefore bounded by the markdown
// nesting depth, not the stream length.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marktree/marktree/internal/doctree"
	"github.com/marktree/marktree/internal/event"
	"github.com/marktree/marktree/internal/highlight"
)

// Options adjust how a document renders.
type Options struct {
	// ImageBasePath is prefixed onto relative image urls.
	ImageBasePath string
	// ID becomes the id attribute of the root node. When empty a
	// timestamp id is generated.
	ID string
}

// Render builds document nodes from a flat event stream. The stream must
// be balanced: an unterminated Start or a stray End is an input contract
// violation and fails the whole render.
func Render(events []event.Event, opts Options) ([]*doctree.Node, error) {
	r := &renderer{opts: opts}
	return r.render(events)
}

// Document tokenizes markdown content and renders it under a single root
// node carrying the document id.
func Document(content string, opts Options) (*doctree.Node, error) {
	nodes, err := Render(event.Tokenize([]byte(content)), opts)
	if err != nil {
		return nil, err
	}
	id := opts.ID
	if id == "" {
		id = fmt.Sprintf("markdown-%d", time.Now().UnixMilli())
	}
	doc := doctree.New("doc", nodes...)
	doc.SetAttr("id", id)
	return doc, nil
}

// DocumentFromFile renders the markdown file at path. A failed read logs
// a warning and renders the fallback content instead of propagating.
func DocumentFromFile(path, fallback string, opts Options) (*doctree.Node, error) {
	content := fallback
	if data, err := os.ReadFile(path); err != nil {
		slog.Warn("reading markdown file", "path", path, "error", err)
	} else {
		content = string(data)
	}
	return Document(content, opts)
}

type renderer struct {
	opts Options
	// inTableHead is set while rendering a table head subtree so cells in
	// it take the header role. Not reentrant for nested tables, which
	// markdown does not produce.
	inTableHead bool
}

func (r *renderer) render(events []event.Event) ([]*doctree.Node, error) {
	var nodes []*doctree.Node
	var pending strings.Builder

	flush := func() {
		if pending.Len() > 0 {
			nodes = append(nodes, doctree.Text(pending.String()))
			pending.Reset()
		}
	}

	i := 0
	for i < len(events) {
		ev := events[i]
		switch ev.Kind {
		case event.KindStart:
			flush()
			node, next, err := r.element(events, i)
			if err != nil {
				return nil, err
			}
			if node != nil {
				nodes = append(nodes, node)
			}
			i = next

		case event.KindEnd:
			return nil, fmt.Errorf("%w: %s at index %d", ErrStrayEnd, ev.Tag, i)

		case event.KindText:
			if strings.TrimSpace(ev.Literal) != "" {
				pending.WriteString(ev.Literal)
			}
			i++

		case event.KindInlineCode:
			flush()
			nodes = append(nodes, doctree.Leaf("code", ev.Literal))
			i++

		case event.KindRawMarkup:
			// Raw markup joins the text flow; the sink escapes it.
			pending.WriteString(ev.Literal)
			i++

		case event.KindFootnoteRef:
			flush()
			ref := doctree.Leaf("footnote-ref", "["+ev.Literal+"]")
			ref.SetAttr("ref", ev.Literal)
			nodes = append(nodes, ref)
			i++

		case event.KindSoftBreak:
			pending.WriteByte(' ')
			i++

		case event.KindHardBreak:
			flush()
			nodes = append(nodes, doctree.New("br"))
			i++

		case event.KindThematicBreak:
			flush()
			nodes = append(nodes, doctree.New("hr"))
			i++

		case event.KindTaskMarker:
			flush()
			nodes = append(nodes, checkbox(ev.Checked))
			i++

		default:
			i++
		}
	}

	flush()
	return nodes, nil
}

// element renders the span opening at start and returns the index just
// past its End. A nil node with no error means the span was consumed
// without producing output.
func (r *renderer) element(events []event.Event, start int) (*doctree.Node, int, error) {
	tag := events[start].Tag
	inner, next, err := matchSpan(events, start, tag)
	if err != nil {
		return nil, 0, err
	}

	var node *doctree.Node
	switch tag.Kind {
	case event.TagParagraph:
		node, err = r.container("p", inner)

	case event.TagHeading:
		node, err = r.heading(tag, inner)

	case event.TagBlockQuote:
		node, err = r.container("blockquote", inner)

	case event.TagCodeBlock:
		node = codeBlock(tag, inner)

	case event.TagList:
		node, err = r.list(tag, inner)

	case event.TagListItem:
		node, err = r.listItem(inner)

	case event.TagFootnoteDef:
		// Definitions are dropped; their references still render.

	case event.TagTable:
		node, err = r.container("table", inner)

	case event.TagTableHead:
		node, err = r.tableHead(inner)

	case event.TagTableRow:
		node, err = r.container("tr", inner)

	case event.TagTableCell:
		role := "td"
		if r.inTableHead {
			role = "th"
		}
		node, err = r.container(role, inner)

	case event.TagEmphasis:
		node, err = r.container("em", inner)

	case event.TagStrong:
		node, err = r.container("strong", inner)

	case event.TagStrikethrough:
		node, err = r.container("del", inner)

	case event.TagLink:
		node, err = r.link(tag, inner)

	case event.TagImage:
		node = r.image(tag, inner)

	default:
		err = fmt.Errorf("unhandled tag %s", tag)
	}
	if err != nil {
		return nil, 0, err
	}
	return node, next, nil
}

func (r *renderer) container(role string, inner []event.Event) (*doctree.Node, error) {
	children, err := r.render(inner)
	if err != nil {
		return nil, err
	}
	return doctree.New(role, children...), nil
}

func (r *renderer) heading(tag event.Tag, inner []event.Event) (*doctree.Node, error) {
	level := tag.Level
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	node, err := r.container("h"+strconv.Itoa(level), inner)
	if err != nil {
		return nil, err
	}
	if tag.ID != "" {
		node.SetAttr("id", tag.ID)
	}
	if len(tag.Classes) > 0 {
		node.SetAttr("class", strings.Join(tag.Classes, " "))
	}
	return node, nil
}

func (r *renderer) tableHead(inner []event.Event) (*doctree.Node, error) {
	r.inTableHead = true
	node, err := r.container("thead", inner)
	r.inTableHead = false
	return node, err
}

func (r *renderer) list(tag event.Tag, inner []event.Event) (*doctree.Node, error) {
	role := "ul"
	if tag.Ordered {
		role = "ol"
	}
	if isTaskList(inner) {
		role = "task-list"
	}
	node, err := r.container(role, inner)
	if err != nil {
		return nil, err
	}
	if tag.Ordered {
		node.SetAttr("start", strconv.FormatUint(tag.Start, 10))
	}
	return node, nil
}

// listItem renders one item, promoting it to a task item when its first
// event is a task marker or marker-prefixed text.
func (r *renderer) listItem(inner []event.Event) (*doctree.Node, error) {
	if len(inner) > 0 {
		switch first := inner[0]; first.Kind {
		case event.KindTaskMarker:
			return r.taskItem(first.Checked, inner[1:])
		case event.KindText:
			if checked, rest, ok := splitTaskPrefix(first.Literal); ok {
				inner[0] = event.Text(rest)
				return r.taskItem(checked, inner)
			}
		}
	}
	return r.container("li", inner)
}

func (r *renderer) taskItem(checked bool, content []event.Event) (*doctree.Node, error) {
	children, err := r.render(content)
	if err != nil {
		return nil, err
	}
	node := doctree.New("task-item", checkbox(checked))
	node.Append(children...)
	return node, nil
}

func (r *renderer) link(tag event.Tag, inner []event.Event) (*doctree.Node, error) {
	node, err := r.container("a", inner)
	if err != nil {
		return nil, err
	}
	node.SetAttr("href", tag.URL)
	node.SetAttr("title", tag.Title)
	if externalURL(tag.URL) {
		node.SetAttr("target", "_blank")
		node.SetAttr("rel", "noopener noreferrer")
	}
	return node, nil
}

func (r *renderer) image(tag event.Tag, inner []event.Event) *doctree.Node {
	src := resolveImageURL(r.opts.ImageBasePath, tag.URL)
	alt := flattenText(inner)
	img := doctree.New("img").
		WithAttr("src", src).
		WithAttr("alt", alt).
		WithAttr("title", tag.Title).
		WithAttr("loading", "lazy")
	return doctree.New("figure", img, doctree.New("figcaption", doctree.Text(alt)))
}

// codeBlock flattens the span's text and classifies it line by line. The
// language carried on the block is the raw info string; indented blocks
// and bare fences fall back to plain text.
func codeBlock(tag event.Tag, inner []event.Event) *doctree.Node {
	language := tag.Language
	if !tag.Fenced || language == "" {
		language = "text"
	}

	lines, info := highlight.ClassifyBlock(flattenText(inner), language)

	scroll := "no-scroll"
	if info.NeedsScroll {
		scroll = "needs-scroll"
	}
	block := doctree.New("code-block").
		WithAttr("language", language).
		WithAttr("lines", strconv.Itoa(info.LineCount)).
		WithAttr("scroll", scroll)

	for n, spans := range lines {
		line := doctree.New("code-line").
			WithAttr("number", fmt.Sprintf("%*d", info.GutterWidth, n+1))
		for _, span := range spans {
			line.Append(doctree.Leaf("syntax", span.Text).WithAttr("class", span.Class))
		}
		block.Append(line)
	}
	return block
}
