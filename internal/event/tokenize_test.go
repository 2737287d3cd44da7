package event

import (
	"slices"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "paragraph with strong",
			source: "**bold** text\n",
			want: []string{
				"Start(Paragraph)",
				"Start(Strong)",
				`Text("bold")`,
				"End(Strong)",
				`Text(" text")`,
				"End(Paragraph)",
			},
		},
		{
			name:   "heading",
			source: "## Hi\n",
			want: []string{
				"Start(Heading(2))",
				`Text("Hi")`,
				"End(Heading(2))",
			},
		},
		{
			name:   "heading with attributes",
			source: "# Hi {#intro .wide}\n",
			want: []string{
				"Start(Heading(1 #intro .wide))",
				`Text("Hi")`,
				"End(Heading(1 #intro .wide))",
			},
		},
		{
			name:   "task list item",
			source: "- [x] Done\n",
			want: []string{
				"Start(List)",
				"Start(ListItem)",
				"TaskMarker(checked=true)",
				`Text("Done")`,
				"End(ListItem)",
				"End(List)",
			},
		},
		{
			name:   "ordered list",
			source: "3. c\n",
			want: []string{
				"Start(List(start=3))",
				"Start(ListItem)",
				`Text("c")`,
				"End(ListItem)",
				"End(List(start=3))",
			},
		},
		{
			name:   "fenced code",
			source: "```go\nx := 1\n```\n",
			want: []string{
				`Start(CodeBlock(fenced "go"))`,
				`Text("x := 1\n")`,
				`End(CodeBlock(fenced "go"))`,
			},
		},
		{
			name:   "indented code",
			source: "    x := 1\n",
			want: []string{
				"Start(CodeBlock(indented))",
				`Text("x := 1\n")`,
				"End(CodeBlock(indented))",
			},
		},
		{
			name:   "blockquote",
			source: "> q\n",
			want: []string{
				"Start(BlockQuote)",
				"Start(Paragraph)",
				`Text("q")`,
				"End(Paragraph)",
				"End(BlockQuote)",
			},
		},
		{
			name:   "soft and hard breaks",
			source: "a\nb  \nc\n",
			want: []string{
				"Start(Paragraph)",
				`Text("a")`,
				"SoftBreak",
				`Text("b")`,
				"HardBreak",
				`Text("c")`,
				"End(Paragraph)",
			},
		},
		{
			name:   "inline code",
			source: "`go build`\n",
			want: []string{
				"Start(Paragraph)",
				`InlineCode("go build")`,
				"End(Paragraph)",
			},
		},
		{
			name:   "inline code across lines",
			source: "`a\nb`\n",
			want: []string{
				"Start(Paragraph)",
				`InlineCode("a b")`,
				"End(Paragraph)",
			},
		},
		{
			name:   "autolink",
			source: "<https://x.dev>\n",
			want: []string{
				"Start(Paragraph)",
				`Start(Link("https://x.dev"))`,
				`Text("https://x.dev")`,
				`End(Link("https://x.dev"))`,
				"End(Paragraph)",
			},
		},
		{
			name:   "email autolink",
			source: "<hi@x.dev>\n",
			want: []string{
				"Start(Paragraph)",
				`Start(Link("mailto:hi@x.dev"))`,
				`Text("hi@x.dev")`,
				`End(Link("mailto:hi@x.dev"))`,
				"End(Paragraph)",
			},
		},
		{
			name:   "link with title",
			source: "[docs](/docs \"Docs\")\n",
			want: []string{
				"Start(Paragraph)",
				`Start(Link("/docs"))`,
				`Text("docs")`,
				`End(Link("/docs"))`,
				"End(Paragraph)",
			},
		},
		{
			name:   "image",
			source: "![a cat](cat.png)\n",
			want: []string{
				"Start(Paragraph)",
				`Start(Image("cat.png"))`,
				`Text("a cat")`,
				`End(Image("cat.png"))`,
				"End(Paragraph)",
			},
		},
		{
			name:   "strikethrough",
			source: "~~gone~~\n",
			want: []string{
				"Start(Paragraph)",
				"Start(Strikethrough)",
				`Text("gone")`,
				"End(Strikethrough)",
				"End(Paragraph)",
			},
		},
		{
			name:   "thematic break",
			source: "---\n",
			want:   []string{"ThematicBreak"},
		},
		{
			name:   "inline html",
			source: "a <b>x</b>\n",
			want: []string{
				"Start(Paragraph)",
				`Text("a ")`,
				`RawMarkup("<b>")`,
				`Text("x")`,
				`RawMarkup("</b>")`,
				"End(Paragraph)",
			},
		},
		{
			name:   "html block",
			source: "<div>\nx\n</div>\n",
			want:   []string{`RawMarkup("<div>\nx\n</div>\n")`},
		},
		{
			name:   "footnote",
			source: "ref[^a]\n\n[^a]: note\n",
			want: []string{
				"Start(Paragraph)",
				`Text("ref")`,
				"FootnoteReference(a)",
				"End(Paragraph)",
				"Start(FootnoteDefinition(a))",
				"Start(Paragraph)",
				`Text("note")`,
				"End(Paragraph)",
				"End(FootnoteDefinition(a))",
			},
		},
		{
			name:   "table",
			source: "| A |\n| - |\n| 1 |\n",
			want: []string{
				"Start(Table(1 columns))",
				"Start(TableHead)",
				"Start(TableRow)",
				"Start(TableCell)",
				`Text("A")`,
				"End(TableCell)",
				"End(TableRow)",
				"End(TableHead)",
				"Start(TableRow)",
				"Start(TableCell)",
				`Text("1")`,
				"End(TableCell)",
				"End(TableRow)",
				"End(Table(1 columns))",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ev := range Tokenize([]byte(tt.source)) {
				got = append(got, ev.String())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) =\n  %s\nwant\n  %s",
					tt.source, strings.Join(got, "\n  "), strings.Join(tt.want, "\n  "))
			}
		})
	}
}

func TestTokenizeBalanced(t *testing.T) {
	source := `# Title {#t .big}

Some *emphasis*, **strong**, ~~struck~~ and ` + "`code`" + `.

> A quote with [a link](https://example.com "Ex") and ![img](pic.png).

- [ ] open task
- [x] done task

1. first
2. second

| L | R |
|:--|--:|
| a | b |

ref[^n]

[^n]: the note

` + "```rust\nfn main() {}\n```\n"

	depth := 0
	for i, ev := range Tokenize([]byte(source)) {
		switch ev.Kind {
		case KindStart:
			depth++
		case KindEnd:
			depth--
		}
		if depth < 0 {
			t.Fatalf("event %d (%s) closes more than was opened", i, ev)
		}
	}
	if depth != 0 {
		t.Errorf("stream ends at depth %d, want 0", depth)
	}
}
