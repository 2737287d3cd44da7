package termsink

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/marktree/marktree/internal/doctree"
)

// minWidth keeps wrapping sane on absurdly narrow outputs.
const minWidth = 20

// ImageEmitter writes an inline terminal image for a local file path.
// internal/termimg provides the usual implementation.
type ImageEmitter interface {
	Emit(w io.Writer, path string) error
}

// Writer renders document trees to a single output. Color capability is
// detected from the output; a Writer is not safe for concurrent use.
type Writer struct {
	out     io.Writer
	theme   *Theme
	profile *termenv.Profile
	styles  *Styles
	width   int
	images  ImageEmitter
}

// Option configures a Writer.
type Option func(*Writer)

// WithWidth sets the wrap width in columns.
func WithWidth(width int) Option {
	return func(w *Writer) { w.width = width }
}

// WithTheme overrides the default palette.
func WithTheme(t *Theme) Option {
	return func(w *Writer) { w.theme = t }
}

// WithProfile forces a termenv color profile instead of detecting one from
// the output.
func WithProfile(p termenv.Profile) Option {
	return func(w *Writer) { w.profile = &p }
}

// WithImages enables inline image emission for local image sources.
func WithImages(e ImageEmitter) Option {
	return func(w *Writer) { w.images = e }
}

// New returns a writer rendering to out.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, theme: DefaultTheme(), width: 80}
	for _, opt := range opts {
		opt(w)
	}
	if w.width < minWidth {
		w.width = minWidth
	}
	r := lipgloss.NewRenderer(out)
	if w.profile != nil {
		r.SetColorProfile(*w.profile)
	}
	w.styles = NewStyles(r, w.theme)
	return w
}

// Styles exposes the writer's bound styles, for callers composing extra
// chrome (pagers, status lines) around rendered documents.
func (w *Writer) Styles() *Styles {
	return w.styles
}

// Write renders the tree and writes it to the output.
func (w *Writer) Write(n *doctree.Node) error {
	_, err := io.WriteString(w.out, w.Render(n))
	return err
}

// Render returns the rendered tree, ending in a newline.
func (w *Writer) Render(n *doctree.Node) string {
	nodes := []*doctree.Node{n}
	if n.Role == "doc" {
		nodes = n.Children
	}
	return strings.Join(w.blocks(nodes, w.width), "\n\n") + "\n"
}

var inlineRoles = map[string]bool{
	"text": true, "em": true, "strong": true, "del": true, "code": true,
	"a": true, "footnote-ref": true, "br": true, "checkbox": true,
}

// blocks renders a child list, folding runs of inline nodes into wrapped
// paragraphs between the block-level nodes.
func (w *Writer) blocks(nodes []*doctree.Node, width int) []string {
	var out []string
	var run []*doctree.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, wordwrap.String(w.inlines(run), width))
		run = nil
	}
	for _, n := range nodes {
		if inlineRoles[n.Role] {
			run = append(run, n)
			continue
		}
		flush()
		out = append(out, w.block(n, width))
	}
	flush()
	return out
}

func (w *Writer) block(n *doctree.Node, width int) string {
	switch n.Role {
	case "p":
		return wordwrap.String(w.inlines(n.Children), width)

	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Role[1] - '0')
		return w.styles.Heading.Render(strings.Repeat("#", level) + " " + n.InnerText())

	case "blockquote":
		return w.quote(n, width)

	case "ul", "ol", "task-list":
		return w.list(n, width)

	case "code-block":
		return w.codeBlock(n)

	case "table":
		return w.table(n)

	case "figure":
		return w.figure(n, width)

	case "hr":
		return w.styles.Rule.Render(strings.Repeat("─", width))

	default:
		return strings.Join(w.blocks(n.Children, width), "\n\n")
	}
}

func (w *Writer) quote(n *doctree.Node, width int) string {
	body := strings.Join(w.blocks(n.Children, width-2), "\n\n")
	bar := w.styles.Quote.Render("│ ")
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = bar + line
	}
	return strings.Join(lines, "\n")
}

func (w *Writer) list(n *doctree.Node, width int) string {
	num := 0
	ordered := false
	if start, ok := n.Attr("start"); ok {
		if v, err := strconv.Atoi(start); err == nil {
			num = v
			ordered = true
		}
	}

	var items []string
	for _, item := range n.Children {
		marker, styled := "• ", "• "
		if ordered {
			marker = strconv.Itoa(num) + ". "
			styled = marker
			num++
		}
		content := item.Children
		if item.Role == "task-item" && len(content) > 0 && content[0].Role == "checkbox" {
			marker, styled = w.taskMarker(content[0])
			content = content[1:]
		}
		items = append(items, w.item(marker, styled, content, width))
	}
	return strings.Join(items, "\n")
}

// item indents an item's body under its marker: the marker heads the first
// line, continuation lines get matching padding.
func (w *Writer) item(marker, styled string, content []*doctree.Node, width int) string {
	mw := runewidth.StringWidth(marker)
	body := strings.Join(w.blocks(content, width-mw), "\n")
	pad := strings.Repeat(" ", mw)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = styled + line
		} else {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func (w *Writer) taskMarker(box *doctree.Node) (plain, styled string) {
	if checked, _ := box.Attr("checked"); checked == "true" {
		return "[✓] ", w.styles.Checked.Render("[✓]") + " "
	}
	return "[ ] ", w.styles.Muted.Render("[ ]") + " "
}

func (w *Writer) codeBlock(n *doctree.Node) string {
	var lines []string
	for _, line := range n.Children {
		number, _ := line.Attr("number")
		var b strings.Builder
		b.WriteString(w.styles.Gutter.Render(number + " │ "))
		for _, span := range line.Children {
			class, _ := span.Attr("class")
			b.WriteString(w.styles.Syntax(class).Render(span.Literal))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

type tableRow struct {
	cells  []string
	header bool
}

func (w *Writer) table(n *doctree.Node) string {
	var rows []tableRow
	for _, child := range n.Children {
		switch child.Role {
		case "thead":
			for _, tr := range child.Children {
				rows = append(rows, tableRow{cells: w.cells(tr), header: true})
			}
		case "tr":
			rows = append(rows, tableRow{cells: w.cells(child)})
		}
	}

	// Column widths are measured on the styled cells, so escape sequences
	// must not count.
	var widths []int
	for _, r := range rows {
		for i, c := range r.cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := ansi.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	sep := w.styles.TableLine.Render(" │ ")
	var out []string
	for ri, r := range rows {
		var b strings.Builder
		for i, c := range r.cells {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-ansi.StringWidth(c)))
		}
		out = append(out, strings.TrimRight(b.String(), " "))

		if r.header && (ri+1 == len(rows) || !rows[ri+1].header) {
			parts := make([]string, len(widths))
			for i, cw := range widths {
				parts[i] = strings.Repeat("─", cw)
			}
			out = append(out, w.styles.TableLine.Render(strings.Join(parts, "─┼─")))
		}
	}
	return strings.Join(out, "\n")
}

func (w *Writer) cells(tr *doctree.Node) []string {
	var cells []string
	for _, cell := range tr.Children {
		content := w.inlines(cell.Children)
		if cell.Role == "th" {
			content = w.styles.TableHeader.Render(content)
		}
		cells = append(cells, content)
	}
	return cells
}

func (w *Writer) figure(n *doctree.Node, width int) string {
	var img, caption *doctree.Node
	for _, c := range n.Children {
		switch c.Role {
		case "img":
			img = c
		case "figcaption":
			caption = c
		}
	}
	if img == nil {
		return strings.Join(w.blocks(n.Children, width), "\n")
	}
	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")

	var b strings.Builder
	emitted := false
	if w.images != nil && !strings.Contains(src, "://") {
		if err := w.images.Emit(&b, src); err == nil {
			emitted = true
		} else {
			b.Reset()
		}
	}
	if !emitted {
		label := "[image]"
		if alt != "" {
			label = "[image: " + alt + "]"
		}
		b.WriteString(w.styles.Muted.Render(label))
		if src != "" {
			b.WriteString(" " + w.styles.LinkURL.Render(src))
		}
		return b.String()
	}
	if caption != nil && caption.InnerText() != "" {
		b.WriteString("\n" + w.styles.Caption.Render(caption.InnerText()))
	}
	return b.String()
}

func (w *Writer) inlines(nodes []*doctree.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(w.inline(n))
	}
	return b.String()
}

// inline renders one inline node. Nested inline styling flattens to the
// outermost style; the terminal does not stack the way CSS does.
func (w *Writer) inline(n *doctree.Node) string {
	switch n.Role {
	case "text":
		return n.Literal
	case "em":
		return w.styles.Emphasis.Render(n.InnerText())
	case "strong":
		return w.styles.Strong.Render(n.InnerText())
	case "del":
		return w.styles.Strike.Render(n.InnerText())
	case "code":
		return w.styles.Code.Render(n.Literal)
	case "a":
		return w.link(n)
	case "footnote-ref":
		return w.styles.Muted.Render(n.Literal)
	case "br":
		return "\n"
	case "checkbox":
		_, styled := w.taskMarker(n)
		return strings.TrimRight(styled, " ")
	default:
		return n.InnerText()
	}
}

func (w *Writer) link(n *doctree.Node) string {
	text := n.InnerText()
	href, _ := n.Attr("href")
	out := w.styles.Link.Render(text)
	if href != "" && href != text {
		out += w.styles.LinkURL.Render(" (" + href + ")")
	}
	return out
}
