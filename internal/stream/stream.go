// Package stream renders markdown incrementally. Input arrives in
// arbitrary chunks, a line-level state machine detects where blocks
// close, and every completed block goes through the document pipeline
// immediately, so styled output appears while the source is still
// producing. Blocks render independently; earlier output is never
// rewritten.
package stream

import (
	"bytes"
	"io"
	"strings"

	"github.com/marktree/marktree/internal/render"
	"github.com/marktree/marktree/internal/termsink"
)

type state int

const (
	stateReady state = iota
	stateParagraph
	stateFence
	stateTable
	stateList
	stateQuote
)

type blockKind int

const (
	kindBlank blockKind = iota
	kindParagraph
	kindFence
	kindHeading
	kindRule
	kindTable
	kindList
	kindQuote
)

type fenceInfo struct {
	marker byte
	length int
	indent int
}

// Renderer accumulates markdown chunks and writes each block to out as
// soon as it completes. It implements io.WriteCloser over raw markdown;
// rendering errors surface from Write because output happens as a side
// effect.
type Renderer struct {
	out  io.Writer
	sink *termsink.Writer
	opts render.Options

	lineBuf bytes.Buffer
	pending []string
	state   state

	fence      fenceInfo
	listIndent int
	emitted    bool
}

// New builds a streaming renderer. Sink options control width, theme
// and color profile of the styled output.
func New(out io.Writer, opts render.Options, sinkOpts ...termsink.Option) *Renderer {
	return &Renderer{
		out:  out,
		sink: termsink.New(out, sinkOpts...),
		opts: opts,
	}
}

// Write accepts a chunk of markdown, any size down to a single byte.
func (r *Renderer) Write(p []byte) (int, error) {
	r.lineBuf.Write(p)
	for {
		line, err := r.lineBuf.ReadString('\n')
		if err != nil {
			r.lineBuf.WriteString(line)
			break
		}
		if err := r.line(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush renders whatever is buffered, treating an incomplete block as
// complete. Call it when the source ends.
func (r *Renderer) Flush() error {
	if r.lineBuf.Len() > 0 {
		rest := r.lineBuf.String()
		r.lineBuf.Reset()
		if !strings.HasSuffix(rest, "\n") {
			rest += "\n"
		}
		r.pending = append(r.pending, rest)
	}
	return r.close()
}

// Close implements io.Closer by flushing.
func (r *Renderer) Close() error {
	return r.Flush()
}

func (r *Renderer) line(raw string) error {
	content := strings.TrimSuffix(raw, "\n")
	content = strings.TrimSuffix(content, "\r")

	switch r.state {
	case stateReady:
		return r.open(content, raw)
	case stateParagraph:
		return r.paragraph(content, raw)
	case stateFence:
		return r.fenced(content, raw)
	case stateTable:
		return r.tableRow(content, raw)
	case stateList:
		return r.listLine(content, raw)
	case stateQuote:
		return r.quoteLine(content, raw)
	}
	return nil
}

// open starts a new block. Single-line blocks render on the spot.
func (r *Renderer) open(content, raw string) error {
	switch classify(content) {
	case kindBlank:
		return nil
	case kindFence:
		r.state = stateFence
		r.fence = parseFence(content)
	case kindHeading, kindRule:
		return r.renderBlock(raw)
	case kindTable:
		r.state = stateTable
	case kindList:
		r.state = stateList
		r.listIndent = indentOf(content)
	case kindQuote:
		r.state = stateQuote
	default:
		r.state = stateParagraph
	}
	r.pending = append(r.pending, raw)
	return nil
}

func (r *Renderer) paragraph(content, raw string) error {
	if blank(content) {
		return r.close()
	}
	// A setext underline turns the accumulated paragraph into a heading,
	// so it must win over the thematic break reading of ---.
	if setextUnderline(content) {
		r.pending = append(r.pending, raw)
		return r.close()
	}
	switch classify(content) {
	case kindFence, kindHeading, kindRule, kindTable, kindList, kindQuote:
		if err := r.close(); err != nil {
			return err
		}
		return r.open(content, raw)
	}
	r.pending = append(r.pending, raw)
	return nil
}

func (r *Renderer) fenced(content, raw string) error {
	r.pending = append(r.pending, raw)
	if closesFence(content, r.fence) {
		return r.close()
	}
	return nil
}

func (r *Renderer) tableRow(content, raw string) error {
	if strings.Contains(content, "|") {
		r.pending = append(r.pending, raw)
		return nil
	}
	if err := r.close(); err != nil {
		return err
	}
	return r.open(content, raw)
}

func (r *Renderer) listLine(content, raw string) error {
	// Blank lines may separate items of the same list, so only a
	// following non-list line decides whether the list ended.
	if blank(content) {
		r.pending = append(r.pending, raw)
		return nil
	}
	trimmed := strings.TrimLeft(content, " \t")
	if listMarker(trimmed) {
		r.pending = append(r.pending, raw)
		return nil
	}
	if kind := classify(content); kind != kindParagraph && kind != kindBlank {
		if err := r.close(); err != nil {
			return err
		}
		return r.open(content, raw)
	}
	if indentOf(content) > r.listIndent {
		r.pending = append(r.pending, raw)
		return nil
	}
	if err := r.close(); err != nil {
		return err
	}
	return r.open(content, raw)
}

func (r *Renderer) quoteLine(content, raw string) error {
	if blank(content) {
		r.pending = append(r.pending, raw)
		return nil
	}
	if trimmed := strings.TrimLeft(content, " \t"); trimmed[0] == '>' {
		r.pending = append(r.pending, raw)
		return nil
	}
	if err := r.close(); err != nil {
		return err
	}
	return r.open(content, raw)
}

// close renders the pending block and resets to ready.
func (r *Renderer) close() error {
	block := strings.Join(r.pending, "")
	r.pending = nil
	r.state = stateReady
	r.fence = fenceInfo{}
	r.listIndent = 0
	return r.renderBlock(block)
}

// renderBlock pushes one block of markdown through the document
// pipeline and writes it, separated from the previous block by a blank
// line. The concatenation of all emitted blocks matches rendering the
// whole document at once.
func (r *Renderer) renderBlock(markdown string) error {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}
	doc, err := render.Document(markdown, r.opts)
	if err != nil {
		return err
	}
	text := r.sink.Render(doc)
	if r.emitted {
		text = "\n" + text
	}
	if _, err := io.WriteString(r.out, text); err != nil {
		return err
	}
	r.emitted = true
	return nil
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	count := 0
	for _, c := range line {
		if c != ' ' && c != '\t' {
			break
		}
		count++
	}
	return count
}

func classify(content string) blockKind {
	trimmed := strings.TrimLeft(content, " \t")
	switch {
	case trimmed == "":
		return kindBlank
	case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
		return kindFence
	case atxHeading(trimmed):
		return kindHeading
	case thematicBreak(trimmed):
		return kindRule
	case trimmed[0] == '>':
		return kindQuote
	case listMarker(trimmed):
		return kindList
	case strings.Contains(trimmed, "|"):
		return kindTable
	}
	return kindParagraph
}

func atxHeading(trimmed string) bool {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return false
	}
	return n == len(trimmed) || trimmed[n] == ' ' || trimmed[n] == '\t'
}

func thematicBreak(trimmed string) bool {
	marker := trimmed[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func listMarker(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	if trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+' {
		return len(trimmed) > 1 && (trimmed[1] == ' ' || trimmed[1] == '\t')
	}
	n := 0
	for n < len(trimmed) && n < 9 && trimmed[n] >= '0' && trimmed[n] <= '9' {
		n++
	}
	if n == 0 || n == len(trimmed) {
		return false
	}
	if trimmed[n] != '.' && trimmed[n] != ')' {
		return false
	}
	return n+1 == len(trimmed) || trimmed[n+1] == ' ' || trimmed[n+1] == '\t'
}

func setextUnderline(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	marker := trimmed[0]
	if marker != '=' && marker != '-' {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != marker {
			return false
		}
	}
	return true
}

func parseFence(content string) fenceInfo {
	indent := indentOf(content)
	trimmed := strings.TrimLeft(content, " \t")
	length := 0
	for length < len(trimmed) && trimmed[length] == trimmed[0] {
		length++
	}
	return fenceInfo{marker: trimmed[0], length: length, indent: indent}
}

// closesFence reports whether content is a valid closing fence for the
// open one: same marker, at least as long, nothing but trailing spaces.
func closesFence(content string, open fenceInfo) bool {
	indent := indentOf(content)
	if indent > 3 && indent > open.indent+3 {
		return false
	}
	trimmed := strings.TrimLeft(content, " \t")
	if trimmed == "" || trimmed[0] != open.marker {
		return false
	}
	length := 0
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] == open.marker {
			length++
			continue
		}
		if trimmed[i] != ' ' && trimmed[i] != '\t' {
			return false
		}
		break
	}
	return length >= open.length
}
