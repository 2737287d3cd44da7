package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marktree/marktree/internal/doctree"
	"github.com/marktree/marktree/internal/event"
)

// renderOne renders a stream expected to produce exactly one node.
func renderOne(t *testing.T, events []event.Event, opts Options) *doctree.Node {
	t.Helper()
	nodes, err := Render(events, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Render produced %d nodes, want 1", len(nodes))
	}
	return nodes[0]
}

func TestRenderNestedInline(t *testing.T) {
	events := []event.Event{
		event.Start(event.Paragraph()),
		event.Start(event.Strong()),
		event.Text("hi"),
		event.End(event.Strong()),
		event.End(event.Paragraph()),
	}
	want := `p[strong[text("hi")]]`
	if got := renderOne(t, events, Options{}).String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderInlineStack(t *testing.T) {
	events := []event.Event{
		event.Start(event.Paragraph()),
		event.Start(event.Emphasis()),
		event.Start(event.Strong()),
		event.Start(event.Strikethrough()),
		event.Text("all three"),
		event.End(event.Strikethrough()),
		event.End(event.Strong()),
		event.End(event.Emphasis()),
		event.End(event.Paragraph()),
	}
	want := `p[em[strong[del[text("all three")]]]]`
	if got := renderOne(t, events, Options{}).String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderTaskList(t *testing.T) {
	want := `task-list[task-item[checkbox{checked=true} text("Done")]]`

	tests := []struct {
		name   string
		events []event.Event
	}{
		{
			name: "marker events",
			events: []event.Event{
				event.Start(event.BulletList()),
				event.Start(event.ListItem()),
				event.TaskMarker(true),
				event.Text("Done"),
				event.End(event.ListItem()),
				event.End(event.BulletList()),
			},
		},
		{
			name: "text prefix",
			events: []event.Event{
				event.Start(event.BulletList()),
				event.Start(event.ListItem()),
				event.Text("[x] Done"),
				event.End(event.ListItem()),
				event.End(event.BulletList()),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderOne(t, tt.events, Options{}).String(); got != want {
				t.Errorf("tree = %s, want %s", got, want)
			}
		})
	}
}

func TestRenderOrderedTaskListKeepsStart(t *testing.T) {
	events := []event.Event{
		event.Start(event.OrderedList(2)),
		event.Start(event.ListItem()),
		event.TaskMarker(false),
		event.Text("Later"),
		event.End(event.ListItem()),
		event.End(event.OrderedList(2)),
	}
	want := `task-list{start=2}[task-item[checkbox{checked=false} text("Later")]]`
	if got := renderOne(t, events, Options{}).String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderLists(t *testing.T) {
	tests := []struct {
		name   string
		events []event.Event
		want   string
	}{
		{
			name: "unordered",
			events: []event.Event{
				event.Start(event.BulletList()),
				event.Start(event.ListItem()),
				event.Text("a"),
				event.End(event.ListItem()),
				event.End(event.BulletList()),
			},
			want: `ul[li[text("a")]]`,
		},
		{
			name: "ordered with start",
			events: []event.Event{
				event.Start(event.OrderedList(3)),
				event.Start(event.ListItem()),
				event.Text("c"),
				event.End(event.ListItem()),
				event.End(event.OrderedList(3)),
			},
			want: `ol{start=3}[li[text("c")]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderOne(t, tt.events, Options{}).String(); got != tt.want {
				t.Errorf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderTableHeadRoles(t *testing.T) {
	tbl := event.Table([]event.Alignment{event.AlignNone})
	events := []event.Event{
		event.Start(tbl),
		event.Start(event.TableHead()),
		event.Start(event.TableRow()),
		event.Start(event.TableCell()),
		event.Text("A"),
		event.End(event.TableCell()),
		event.End(event.TableRow()),
		event.End(event.TableHead()),
		event.Start(event.TableRow()),
		event.Start(event.TableCell()),
		event.Text("1"),
		event.End(event.TableCell()),
		event.End(event.TableRow()),
		event.End(tbl),
	}
	want := `table[thead[tr[th[text("A")]]] tr[td[text("1")]]]`
	if got := renderOne(t, events, Options{}).String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderTextFlow(t *testing.T) {
	tests := []struct {
		name   string
		inner  []event.Event
		want   string
	}{
		{
			name:  "soft break joins",
			inner: []event.Event{event.Text("one"), event.SoftBreak(), event.Text("two")},
			want:  `p[text("one two")]`,
		},
		{
			name:  "raw markup joins flow",
			inner: []event.Event{event.Text("a "), event.RawMarkup("<b>"), event.Text(" b")},
			want:  `p[text("a <b> b")]`,
		},
		{
			name:  "inline code flushes",
			inner: []event.Event{event.Text("run "), event.InlineCode("go build")},
			want:  `p[text("run ") code("go build")]`,
		},
		{
			name:  "whitespace only dropped",
			inner: []event.Event{event.Text("   ")},
			want:  `p`,
		},
		{
			name:  "hard break splits",
			inner: []event.Event{event.Text("a"), event.HardBreak(), event.Text("b")},
			want:  `p[text("a") br text("b")]`,
		},
		{
			name:  "footnote ref",
			inner: []event.Event{event.Text("see"), event.FootnoteRef("1")},
			want:  `p[text("see") footnote-ref{ref=1}("[1]")]`,
		},
		{
			name:  "bare task marker",
			inner: []event.Event{event.TaskMarker(false), event.Text("loose")},
			want:  `p[checkbox{checked=false} text("loose")]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := append([]event.Event{event.Start(event.Paragraph())}, tt.inner...)
			events = append(events, event.End(event.Paragraph()))
			if got := renderOne(t, events, Options{}).String(); got != tt.want {
				t.Errorf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderThematicBreak(t *testing.T) {
	events := []event.Event{
		event.Start(event.Paragraph()),
		event.Text("x"),
		event.End(event.Paragraph()),
		event.ThematicBreak(),
	}
	nodes, err := Render(events, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(nodes) != 2 || nodes[1].Role != "hr" {
		t.Errorf("nodes = %v, want p then hr", nodes)
	}
}

func TestRenderHeadings(t *testing.T) {
	attributed := event.Heading(2)
	attributed.ID = "intro"
	attributed.Classes = []string{"wide", "hero"}

	tests := []struct {
		name string
		tag  event.Tag
		want string
	}{
		{"plain", event.Heading(3), `h3[text("Title")]`},
		{"clamped high", event.Heading(9), `h6[text("Title")]`},
		{"clamped low", event.Heading(0), `h1[text("Title")]`},
		{"id and classes", attributed, `h2{id=intro class=wide hero}[text("Title")]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []event.Event{
				event.Start(tt.tag),
				event.Text("Title"),
				event.End(tt.tag),
			}
			if got := renderOne(t, events, Options{}).String(); got != tt.want {
				t.Errorf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderBlockQuote(t *testing.T) {
	events := []event.Event{
		event.Start(event.BlockQuote()),
		event.Start(event.Paragraph()),
		event.Text("quoted"),
		event.End(event.Paragraph()),
		event.End(event.BlockQuote()),
	}
	want := `blockquote[p[text("quoted")]]`
	if got := renderOne(t, events, Options{}).String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderFootnoteDefinitionDropped(t *testing.T) {
	events := []event.Event{
		event.Start(event.FootnoteDefinition("note")),
		event.Start(event.Paragraph()),
		event.Text("body"),
		event.End(event.Paragraph()),
		event.End(event.FootnoteDefinition("note")),
		event.Start(event.Paragraph()),
		event.FootnoteRef("note"),
		event.End(event.Paragraph()),
	}
	nodes, err := Render(events, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Render produced %d nodes, want the definition dropped", len(nodes))
	}
	want := `p[footnote-ref{ref=note}("[note]")]`
	if got := nodes[0].String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestRenderLinkAttrs(t *testing.T) {
	t.Run("external", func(t *testing.T) {
		tag := event.Link(event.LinkInline, "https://example.com", "Site")
		events := []event.Event{
			event.Start(event.Paragraph()),
			event.Start(tag),
			event.Text("site"),
			event.End(tag),
			event.End(event.Paragraph()),
		}
		a := renderOne(t, events, Options{}).Children[0]
		if a.Role != "a" {
			t.Fatalf("role = %q, want a", a.Role)
		}
		for _, attr := range []struct{ key, want string }{
			{"href", "https://example.com"},
			{"title", "Site"},
			{"target", "_blank"},
			{"rel", "noopener noreferrer"},
		} {
			if got, ok := a.Attr(attr.key); !ok || got != attr.want {
				t.Errorf("attr %s = %q (%v), want %q", attr.key, got, ok, attr.want)
			}
		}
	})

	t.Run("internal", func(t *testing.T) {
		tag := event.Link(event.LinkInline, "/docs", "")
		events := []event.Event{
			event.Start(event.Paragraph()),
			event.Start(tag),
			event.Text("docs"),
			event.End(tag),
			event.End(event.Paragraph()),
		}
		a := renderOne(t, events, Options{}).Children[0]
		if got, _ := a.Attr("href"); got != "/docs" {
			t.Errorf("href = %q, want /docs", got)
		}
		if _, ok := a.Attr("title"); !ok {
			t.Error("title attr missing, want present even when empty")
		}
		if _, ok := a.Attr("target"); ok {
			t.Error("target set on internal link")
		}
	})
}

func TestRenderImage(t *testing.T) {
	tag := event.Image(event.LinkInline, "cat.png", "A cat")
	events := []event.Event{
		event.Start(tag),
		event.Text("orange cat"),
		event.End(tag),
	}
	fig := renderOne(t, events, Options{ImageBasePath: "/static"})
	if fig.Role != "figure" || len(fig.Children) != 2 {
		t.Fatalf("node = %s, want figure with img and figcaption", fig)
	}
	img, caption := fig.Children[0], fig.Children[1]
	for _, attr := range []struct{ key, want string }{
		{"src", "/static/cat.png"},
		{"alt", "orange cat"},
		{"title", "A cat"},
		{"loading", "lazy"},
	} {
		if got, _ := img.Attr(attr.key); got != attr.want {
			t.Errorf("img attr %s = %q, want %q", attr.key, got, attr.want)
		}
	}
	if caption.Role != "figcaption" || caption.InnerText() != "orange cat" {
		t.Errorf("caption = %s, want figcaption with the alt text", caption)
	}
}

func TestRenderImageEmptyAltKeepsCaption(t *testing.T) {
	tag := event.Image(event.LinkAuto, "https://cdn.example.com/x.png", "")
	events := []event.Event{event.Start(tag), event.End(tag)}
	fig := renderOne(t, events, Options{ImageBasePath: "/static"})
	if len(fig.Children) != 2 {
		t.Fatalf("figure has %d children, want img and figcaption", len(fig.Children))
	}
	if got, _ := fig.Children[0].Attr("src"); got != "https://cdn.example.com/x.png" {
		t.Errorf("src = %q, want the absolute url untouched", got)
	}
}

func TestRenderCodeBlockAttrs(t *testing.T) {
	fence := event.FencedCode("go")
	events := []event.Event{
		event.Start(fence),
		event.Text("package main\n"),
		event.End(fence),
	}
	block := renderOne(t, events, Options{})
	if block.Role != "code-block" {
		t.Fatalf("role = %q, want code-block", block.Role)
	}
	for _, attr := range []struct{ key, want string }{
		{"language", "go"},
		{"lines", "1"},
		{"scroll", "no-scroll"},
	} {
		if got, _ := block.Attr(attr.key); got != attr.want {
			t.Errorf("attr %s = %q, want %q", attr.key, got, attr.want)
		}
	}
	if len(block.Children) != 1 {
		t.Fatalf("block has %d lines, want 1", len(block.Children))
	}
	line := block.Children[0]
	if line.Role != "code-line" {
		t.Errorf("line role = %q, want code-line", line.Role)
	}
	if got, _ := line.Attr("number"); got != "1" {
		t.Errorf("line number = %q, want %q", got, "1")
	}
	if got := line.InnerText(); got != "package main" {
		t.Errorf("line text = %q, want %q", got, "package main")
	}
}

func TestRenderCodeBlockScrollAndGutter(t *testing.T) {
	fence := event.FencedCode("")
	events := []event.Event{
		event.Start(fence),
		event.Text(strings.Repeat("line\n", 16)),
		event.End(fence),
	}
	block := renderOne(t, events, Options{})
	if got, _ := block.Attr("language"); got != "text" {
		t.Errorf("language = %q, want text for a bare fence", got)
	}
	if got, _ := block.Attr("lines"); got != "16" {
		t.Errorf("lines = %q, want 16", got)
	}
	if got, _ := block.Attr("scroll"); got != "needs-scroll" {
		t.Errorf("scroll = %q, want needs-scroll past 15 lines", got)
	}
	if got, _ := block.Children[0].Attr("number"); got != " 1" {
		t.Errorf("first number = %q, want padded %q", got, " 1")
	}
	if got, _ := block.Children[15].Attr("number"); got != "16" {
		t.Errorf("last number = %q, want %q", got, "16")
	}
}

func TestRenderCodeBlockLanguageDefaults(t *testing.T) {
	tests := []struct {
		name string
		tag  event.Tag
		want string
	}{
		{"indented", event.IndentedCode(), "text"},
		{"bare fence", event.FencedCode(""), "text"},
		{"info string kept raw", event.FencedCode("PY"), "PY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []event.Event{
				event.Start(tt.tag),
				event.Text("x\n"),
				event.End(tt.tag),
			}
			block := renderOne(t, events, Options{})
			if got, _ := block.Attr("language"); got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStrayEnd(t *testing.T) {
	tests := []struct {
		name   string
		events []event.Event
	}{
		{
			name:   "top level",
			events: []event.Event{event.End(event.Paragraph())},
		},
		{
			name: "inside span",
			events: []event.Event{
				event.Start(event.Paragraph()),
				event.End(event.Strong()),
				event.End(event.Paragraph()),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(tt.events, Options{}); !errors.Is(err, ErrStrayEnd) {
				t.Errorf("err = %v, want ErrStrayEnd", err)
			}
		})
	}
}

func TestRenderUnterminated(t *testing.T) {
	events := []event.Event{
		event.Start(event.Paragraph()),
		event.Text("no end"),
	}
	if _, err := Render(events, Options{}); !errors.Is(err, ErrUnterminated) {
		t.Errorf("err = %v, want ErrUnterminated", err)
	}
}

func TestDocumentRoot(t *testing.T) {
	doc, err := Document("# Hi\n", Options{ID: "readme"})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Role != "doc" {
		t.Errorf("role = %q, want doc", doc.Role)
	}
	if got, _ := doc.Attr("id"); got != "readme" {
		t.Errorf("id = %q, want readme", got)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("doc has %d children, want 1", len(doc.Children))
	}
	want := `h1[text("Hi")]`
	if got := doc.Children[0].String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestDocumentDefaultID(t *testing.T) {
	doc, err := Document("hello\n", Options{})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	id, ok := doc.Attr("id")
	if !ok || !strings.HasPrefix(id, "markdown-") {
		t.Errorf("id = %q, want a generated markdown- id", id)
	}
}

func TestDocumentTaskListMarkdown(t *testing.T) {
	doc, err := Document("- [x] Done\n", Options{ID: "t"})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	want := `task-list[task-item[checkbox{checked=true} text("Done")]]`
	if got := doc.Children[0].String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestDocumentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("*hi*\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := DocumentFromFile(path, "fallback", Options{ID: "d"})
	if err != nil {
		t.Fatalf("DocumentFromFile: %v", err)
	}
	want := `p[em[text("hi")]]`
	if got := doc.Children[0].String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestDocumentFromFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")
	doc, err := DocumentFromFile(path, "**gone**", Options{ID: "d"})
	if err != nil {
		t.Fatalf("DocumentFromFile: %v", err)
	}
	want := `p[strong[text("gone")]]`
	if got := doc.Children[0].String(); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}
