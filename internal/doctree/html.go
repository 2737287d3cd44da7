package doctree

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTML serializes the subtree using the markdown-* class vocabulary the
// stylesheet styles against. Literal text is always escaped, raw markup
// included; the tree never re-emits source HTML as markup.
func HTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// WriteHTML serializes the subtree to w.
func WriteHTML(w io.Writer, n *Node) error {
	_, err := io.WriteString(w, HTML(n))
	return err
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Role {
	case "text":
		b.WriteString(html.EscapeString(n.Literal))

	case "doc":
		writeElement(b, n, "div", "markdown-container")

	case "p":
		writeElement(b, n, "p", "markdown-paragraph")

	case "h1", "h2", "h3", "h4", "h5", "h6":
		writeHeading(b, n)

	case "blockquote":
		writeElement(b, n, "blockquote", "markdown-blockquote")

	case "ul":
		writeElement(b, n, "ul", "markdown-list")

	case "ol":
		writeElement(b, n, "ol", "markdown-list")

	case "task-list":
		tag := "ul"
		if _, ok := n.Attr("start"); ok {
			tag = "ol"
		}
		writeElement(b, n, tag, "markdown-list markdown-task-list")

	case "li":
		writeElement(b, n, "li", "markdown-list-item")

	case "task-item":
		writeTaskItem(b, n)

	case "checkbox":
		writeCheckbox(b, n)

	case "table":
		writeElement(b, n, "table", "markdown-table")

	case "thead":
		writeElement(b, n, "thead", "")

	case "tr":
		writeElement(b, n, "tr", "")

	case "th":
		writeElement(b, n, "th", "markdown-table-header")

	case "td":
		writeElement(b, n, "td", "markdown-table-cell")

	case "em":
		writeElement(b, n, "em", "markdown-emphasis")

	case "strong":
		writeElement(b, n, "strong", "markdown-strong")

	case "del":
		writeElement(b, n, "del", "markdown-strikethrough")

	case "code":
		b.WriteString(`<code class="markdown-inline-code">` +
			html.EscapeString(n.Literal) + "</code>")

	case "code-block":
		writeCodeBlock(b, n)

	case "code-line":
		writeCodeLine(b, n)

	case "syntax":
		class, _ := n.Attr("class")
		b.WriteString(`<span class="syntax-` + class + `">` +
			html.EscapeString(n.Literal) + "</span>")

	case "a":
		class := "markdown-link"
		if _, ok := n.Attr("target"); ok {
			class = "markdown-link markdown-external-link"
		}
		writeElement(b, n, "a", class)

	case "figure":
		writeElement(b, n, "figure", "markdown-image-container")

	case "img":
		b.WriteString(`<img class="markdown-image"`)
		writeAttrs(b, n.Attrs)
		b.WriteString("/>")

	case "figcaption":
		writeElement(b, n, "figcaption", "markdown-image-caption")

	case "footnote-ref":
		b.WriteString(`<sup class="markdown-footnote-ref">` +
			html.EscapeString(n.Literal) + "</sup>")

	case "br":
		b.WriteString("<br/>")

	case "hr":
		b.WriteString(`<hr class="markdown-thematic-break"/>`)

	default:
		writeChildren(b, n)
	}
}

func writeChildren(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		writeNode(b, c)
	}
}

func writeElement(b *strings.Builder, n *Node, tag, class string) {
	b.WriteByte('<')
	b.WriteString(tag)
	if class != "" {
		b.WriteString(` class="` + class + `"`)
	}
	writeAttrs(b, n.Attrs)
	b.WriteByte('>')
	writeChildren(b, n)
	b.WriteString("</" + tag + ">")
}

func writeAttrs(b *strings.Builder, attrs []Attr) {
	for _, a := range attrs {
		if a.Key == "class" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
}

// writeHeading merges any source-supplied classes into the level class.
func writeHeading(b *strings.Builder, n *Node) {
	class := "markdown-heading-" + n.Role[1:]
	if extra, ok := n.Attr("class"); ok && extra != "" {
		class += " " + extra
	}
	b.WriteString("<" + n.Role + ` class="` + class + `"`)
	if id, ok := n.Attr("id"); ok && id != "" {
		b.WriteString(` id="` + html.EscapeString(id) + `"`)
	}
	b.WriteByte('>')
	writeChildren(b, n)
	b.WriteString("</" + n.Role + ">")
}

// writeTaskItem lays out the checkbox and a text span side by side inside
// a flex container.
func writeTaskItem(b *strings.Builder, n *Node) {
	b.WriteString(`<li class="markdown-task-list-item"><div class="markdown-task-checkbox-container">`)
	var rest []*Node
	for _, c := range n.Children {
		if c.Role == "checkbox" {
			writeNode(b, c)
			continue
		}
		rest = append(rest, c)
	}
	b.WriteString(`<span class="markdown-task-text">`)
	for _, c := range rest {
		writeNode(b, c)
	}
	b.WriteString("</span></div></li>")
}

func writeCheckbox(b *strings.Builder, n *Node) {
	checked, _ := n.Attr("checked")
	state := "unchecked"
	if checked == "true" {
		state = "checked"
	}
	b.WriteString(`<div class="markdown-task-checkbox markdown-task-checkbox-` + state +
		`" role="checkbox" aria-checked="`)
	if state == "checked" {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteString(`" tabindex="0"></div>`)
}

func writeCodeBlock(b *strings.Builder, n *Node) {
	lang, _ := n.Attr("language")
	scroll, _ := n.Attr("scroll")
	class := "markdown-code-block"
	if lang != "" {
		class += " language-" + lang
	}
	if scroll != "" {
		class += " " + scroll
	}
	b.WriteString(`<div class="` + html.EscapeString(class) + `">` +
		`<pre><code class="syntax-highlighted line-numbers">`)
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</code></pre></div>")
}

func writeCodeLine(b *strings.Builder, n *Node) {
	b.WriteString(`<div class="code-line">`)
	if num, ok := n.Attr("number"); ok {
		b.WriteString(`<span class="line-number" aria-hidden="true" tabindex="-1">` +
			html.EscapeString(num) + `</span>`)
	}
	b.WriteString(`<span class="line-content">`)
	writeChildren(b, n)
	b.WriteString("</span></div>")
}
