package highlight

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
)

// Span is one classified run of code text.
type Span struct {
	Text  string
	Class string
}

// BlockInfo is block-level metadata derived from the raw code text.
type BlockInfo struct {
	LineCount   int
	NeedsScroll bool
	// GutterWidth is the digit count of LineCount, the field width line
	// numbers are right-aligned to.
	GutterWidth int
}

// Blocks wider than scrollMaxLineLen bytes or taller than scrollMaxLines
// get a horizontal/vertical scroll container.
const (
	scrollMaxLineLen = 80
	scrollMaxLines   = 15
)

// ClassifyBlock splits code into lines, tokenises each line with the
// shared catalog's lexer for language, and maps every token to a semantic
// class. A line the lexer cannot process degrades to a single span classed
// "text"; the rest of the block is unaffected.
//
// Scroll metadata is measured on the raw lines; highlighting sees each
// line with tabs expanded to four spaces.
func ClassifyBlock(code, language string) ([][]Span, BlockInfo) {
	token := NormalizeLanguage(language)
	cat := SharedCatalog()
	lexer := cat.Lexer(token)
	style := cat.Style()

	lines := splitLines(code)
	info := BlockInfo{
		LineCount:   len(lines),
		NeedsScroll: len(lines) > scrollMaxLines,
		GutterWidth: len(strconv.Itoa(len(lines))),
	}

	out := make([][]Span, 0, len(lines))
	for _, line := range lines {
		if len(line) > scrollMaxLineLen {
			info.NeedsScroll = true
		}
		expanded := strings.ReplaceAll(line, "\t", "    ")
		out = append(out, classifyLine(lexer, style, expanded, token))
	}
	return out, info
}

// splitLines iterates the block's lines the way the rest of the pipeline
// counts them: a trailing newline does not produce a final empty line, and
// \r\n terminators are stripped.
func splitLines(code string) []string {
	if code == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func classifyLine(lexer chroma.Lexer, style *chroma.Style, line, token string) []Span {
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return []Span{{Text: line, Class: "text"}}
	}
	var spans []Span
	for t := iterator(); t != chroma.EOF; t = iterator() {
		value := strings.TrimRight(t.Value, "\n")
		if value == "" {
			continue
		}
		entry := style.Get(t.Type)
		spans = append(spans, Span{Text: value, Class: Classify(entry, value, token)})
	}
	return spans
}

type rgb struct{ r, g, b uint8 }

// palette maps the theme's foreground colors straight to semantic classes.
var palette = map[rgb]string{
	{255, 121, 198}: "keyword",
	{80, 250, 123}:  "function",
	{98, 114, 164}:  "comment",
	{241, 250, 140}: "string",
	{189, 147, 249}: "number",
	{139, 233, 253}: "type",
	{248, 248, 242}: "text",
}

// Classify maps one styled token to a semantic class. Italic styling wins
// over everything and classes the token as a type. An exact palette color
// comes next; anything left is guessed from the token text with
// per-language rules.
func Classify(entry chroma.StyleEntry, text, language string) string {
	if entry.Italic == chroma.Yes {
		return "type"
	}
	if entry.Colour.IsSet() {
		key := rgb{entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()}
		if class, ok := palette[key]; ok {
			return class
		}
	}
	return heuristicClass(text, language)
}

// NormalizeLanguage maps common language aliases to the catalog token used
// for lexer lookup and heuristic selection. Unrecognized names pass
// through unchanged.
func NormalizeLanguage(language string) string {
	switch strings.ToLower(language) {
	case "js", "javascript":
		return "js"
	case "css":
		return "css"
	case "html":
		return "html"
	case "typescript", "ts":
		return "typescript"
	case "python", "py":
		return "python"
	case "ruby", "rb":
		return "ruby"
	case "rust", "rs":
		return "rust"
	case "go":
		return "go"
	case "java":
		return "java"
	case "c":
		return "c"
	case "cpp", "c++":
		return "cpp"
	case "csharp", "c#":
		return "cs"
	case "php":
		return "php"
	case "shell", "bash", "sh":
		return "bash"
	case "yaml", "yml":
		return "yaml"
	case "json":
		return "json"
	case "markdown", "md":
		return "markdown"
	case "sql":
		return "sql"
	}
	return language
}

// heuristicClass guesses from the token text alone. Rule order matters.
func heuristicClass(text, language string) string {
	switch language {
	case "js":
		return jsClass(text)
	case "html":
		return htmlClass(text)
	case "css":
		return cssClass(text)
	}
	return genericClass(text)
}

func jsClass(text string) string {
	switch text {
	case "function", "const", "let", "var", "return":
		return "keyword"
	case "true", "false":
		return "bool"
	}
	switch {
	case quoted(text, `"`) || quoted(text, "'"):
		return "string"
	case strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">"):
		return "type"
	case numericLiteral(text):
		return "number"
	case strings.HasPrefix(text, "//"):
		return "comment"
	case startsUpper(text):
		return "type"
	}
	return "text"
}

func htmlClass(text string) string {
	switch {
	case strings.HasPrefix(text, "<") && strings.Contains(text, ">"):
		return "keyword"
	case quoted(text, `"`):
		return "string"
	case strings.HasPrefix(text, "<!--") || strings.HasSuffix(text, "-->"):
		return "comment"
	}
	return "text"
}

func cssClass(text string) string {
	switch {
	case strings.HasSuffix(text, ":"):
		return "keyword"
	case strings.HasPrefix(text, ".") || strings.HasPrefix(text, "#"):
		return "type"
	case strings.HasSuffix(text, "px") || strings.HasSuffix(text, "em") ||
		strings.HasSuffix(text, "rem") || strings.HasSuffix(text, "%"):
		return "number"
	case strings.HasPrefix(text, "#") && (len(text) == 4 || len(text) == 7):
		return "string"
	case strings.HasPrefix(text, "/*") || strings.HasSuffix(text, "*/"):
		return "comment"
	}
	return "text"
}

func genericClass(text string) string {
	switch {
	case strings.HasPrefix(text, "#[derive"):
		return "attribute"
	case strings.HasPrefix(text, "#[") || strings.HasPrefix(text, "@"):
		return "attribute"
	case text == "true" || text == "false":
		return "bool"
	case strings.HasPrefix(text, "fn ") || strings.HasPrefix(text, "struct ") ||
		strings.HasPrefix(text, "enum "):
		return "keyword"
	case text == "let" || text == "mut" || text == "const" || text == "return":
		return "keyword"
	case numericLiteral(text):
		return "number"
	case quoted(text, `"`):
		return "string"
	case strings.HasPrefix(text, "//"):
		return "comment"
	case startsUpper(text):
		return "type"
	}
	return "text"
}

func quoted(s, q string) bool {
	return strings.HasPrefix(s, q) && strings.HasSuffix(s, q)
}

// numericLiteral reports whether every rune is a digit, dot, or
// underscore. The empty string vacuously qualifies.
func numericLiteral(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) && r != '.' && r != '_' {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
