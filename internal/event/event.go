// Package event defines the flat markdown event stream consumed by the
// renderer, along with the goldmark-backed tokenizer that produces it.
//
// The stream is a linear left-to-right encoding of the document: structural
// constructs appear as balanced Start/End tag pairs, leaf content as single
// events between them. Tags of the same kind may nest (lists inside lists),
// so consumers must track nesting depth rather than match on kind alone.
package event

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies the variant of an Event.
type Kind uint8

const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindInlineCode
	KindRawMarkup
	KindFootnoteRef
	KindSoftBreak
	KindHardBreak
	KindThematicBreak
	KindTaskMarker
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	case KindInlineCode:
		return "inline_code"
	case KindRawMarkup:
		return "raw_markup"
	case KindFootnoteRef:
		return "footnote_ref"
	case KindSoftBreak:
		return "soft_break"
	case KindHardBreak:
		return "hard_break"
	case KindThematicBreak:
		return "thematic_break"
	case KindTaskMarker:
		return "task_marker"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is one unit of the flat parsed-markdown stream: a tag boundary or a
// piece of leaf content. Events are immutable once produced.
type Event struct {
	Kind    Kind
	Tag     Tag    // KindStart, KindEnd
	Literal string // KindText, KindInlineCode, KindRawMarkup, KindFootnoteRef (the id)
	Checked bool   // KindTaskMarker
}

// Start opens the span of a structural construct.
func Start(t Tag) Event { return Event{Kind: KindStart, Tag: t} }

// End closes the span opened by the matching Start.
func End(t Tag) Event { return Event{Kind: KindEnd, Tag: t} }

// Text carries a run of plain text.
func Text(s string) Event { return Event{Kind: KindText, Literal: s} }

// InlineCode carries the content of an inline code span.
func InlineCode(s string) Event { return Event{Kind: KindInlineCode, Literal: s} }

// RawMarkup carries raw HTML encountered in the source. The renderer treats
// it as literal text; it is never re-emitted as markup.
func RawMarkup(s string) Event { return Event{Kind: KindRawMarkup, Literal: s} }

// FootnoteRef references a footnote definition by id.
func FootnoteRef(id string) Event { return Event{Kind: KindFootnoteRef, Literal: id} }

// SoftBreak is a line break that renders as collapsible whitespace.
func SoftBreak() Event { return Event{Kind: KindSoftBreak} }

// HardBreak is an explicit line break.
func HardBreak() Event { return Event{Kind: KindHardBreak} }

// ThematicBreak is a horizontal rule.
func ThematicBreak() Event { return Event{Kind: KindThematicBreak} }

// TaskMarker is a task-list checkbox produced by the tokenizer.
func TaskMarker(checked bool) Event { return Event{Kind: KindTaskMarker, Checked: checked} }

func (e Event) String() string {
	switch e.Kind {
	case KindStart:
		return "Start(" + e.Tag.String() + ")"
	case KindEnd:
		return "End(" + e.Tag.String() + ")"
	case KindText:
		return fmt.Sprintf("Text(%q)", e.Literal)
	case KindInlineCode:
		return fmt.Sprintf("InlineCode(%q)", e.Literal)
	case KindRawMarkup:
		return fmt.Sprintf("RawMarkup(%q)", e.Literal)
	case KindFootnoteRef:
		return fmt.Sprintf("FootnoteReference(%s)", e.Literal)
	case KindSoftBreak:
		return "SoftBreak"
	case KindHardBreak:
		return "HardBreak"
	case KindThematicBreak:
		return "ThematicBreak"
	case KindTaskMarker:
		return fmt.Sprintf("TaskMarker(checked=%t)", e.Checked)
	}
	return fmt.Sprintf("Event(%d)", e.Kind)
}

// TagKind identifies the variant of a Tag.
type TagKind uint8

const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagListItem
	TagFootnoteDef
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
)

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// LinkKind distinguishes how a link or image was written in the source.
type LinkKind uint8

const (
	LinkInline LinkKind = iota
	LinkAuto
	LinkEmail
)

// Tag carries the kind and payload of a structural markdown construct.
// Only the fields relevant to the kind are set; use the constructors.
type Tag struct {
	Kind TagKind

	// TagHeading; ID doubles as the definition id for TagFootnoteDef.
	Level   int
	ID      string
	Classes []string

	// TagCodeBlock
	Fenced   bool
	Language string

	// TagList; Start is the first item number when Ordered.
	Ordered bool
	Start   uint64

	// TagTable
	Alignments []Alignment

	// TagLink, TagImage
	LinkKind LinkKind
	URL      string
	Title    string
}

// Paragraph returns a paragraph tag.
func Paragraph() Tag { return Tag{Kind: TagParagraph} }

// Heading returns a heading tag for the given level (1..6).
func Heading(level int) Tag { return Tag{Kind: TagHeading, Level: level} }

// BlockQuote returns a block quote tag.
func BlockQuote() Tag { return Tag{Kind: TagBlockQuote} }

// FencedCode returns a fenced code block tag with the given info-string
// language, which may be empty.
func FencedCode(language string) Tag {
	return Tag{Kind: TagCodeBlock, Fenced: true, Language: language}
}

// IndentedCode returns an indented code block tag.
func IndentedCode() Tag { return Tag{Kind: TagCodeBlock} }

// BulletList returns an unordered list tag.
func BulletList() Tag { return Tag{Kind: TagList} }

// OrderedList returns an ordered list tag starting at the given number.
func OrderedList(start uint64) Tag { return Tag{Kind: TagList, Ordered: true, Start: start} }

// ListItem returns a list item tag.
func ListItem() Tag { return Tag{Kind: TagListItem} }

// FootnoteDefinition returns a footnote definition tag.
func FootnoteDefinition(id string) Tag { return Tag{Kind: TagFootnoteDef, ID: id} }

// Table returns a table tag with per-column alignments.
func Table(alignments []Alignment) Tag { return Tag{Kind: TagTable, Alignments: alignments} }

// TableHead returns a table head tag.
func TableHead() Tag { return Tag{Kind: TagTableHead} }

// TableRow returns a table row tag.
func TableRow() Tag { return Tag{Kind: TagTableRow} }

// TableCell returns a table cell tag.
func TableCell() Tag { return Tag{Kind: TagTableCell} }

// Emphasis returns an emphasis tag.
func Emphasis() Tag { return Tag{Kind: TagEmphasis} }

// Strong returns a strong emphasis tag.
func Strong() Tag { return Tag{Kind: TagStrong} }

// Strikethrough returns a strikethrough tag.
func Strikethrough() Tag { return Tag{Kind: TagStrikethrough} }

// Link returns a link tag.
func Link(kind LinkKind, url, title string) Tag {
	return Tag{Kind: TagLink, LinkKind: kind, URL: url, Title: title}
}

// Image returns an image tag.
func Image(kind LinkKind, url, title string) Tag {
	return Tag{Kind: TagImage, LinkKind: kind, URL: url, Title: title}
}

// Matches reports whether two tags open and close the same span. Payload
// data participates in the comparison except table column alignments, which
// are cosmetic and compared loosely.
func (t Tag) Matches(o Tag) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TagHeading:
		return t.Level == o.Level && t.ID == o.ID && slices.Equal(t.Classes, o.Classes)
	case TagCodeBlock:
		return t.Fenced == o.Fenced && t.Language == o.Language
	case TagList:
		return t.Ordered == o.Ordered && t.Start == o.Start
	case TagFootnoteDef:
		return t.ID == o.ID
	case TagLink, TagImage:
		return t.LinkKind == o.LinkKind && t.URL == o.URL && t.Title == o.Title
	default:
		return true
	}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagParagraph:
		return "Paragraph"
	case TagHeading:
		s := fmt.Sprintf("Heading(%d", t.Level)
		if t.ID != "" {
			s += " #" + t.ID
		}
		if len(t.Classes) > 0 {
			s += " ." + strings.Join(t.Classes, " .")
		}
		return s + ")"
	case TagBlockQuote:
		return "BlockQuote"
	case TagCodeBlock:
		if t.Fenced {
			return fmt.Sprintf("CodeBlock(fenced %q)", t.Language)
		}
		return "CodeBlock(indented)"
	case TagList:
		if t.Ordered {
			return fmt.Sprintf("List(start=%d)", t.Start)
		}
		return "List"
	case TagListItem:
		return "ListItem"
	case TagFootnoteDef:
		return fmt.Sprintf("FootnoteDefinition(%s)", t.ID)
	case TagTable:
		return fmt.Sprintf("Table(%d columns)", len(t.Alignments))
	case TagTableHead:
		return "TableHead"
	case TagTableRow:
		return "TableRow"
	case TagTableCell:
		return "TableCell"
	case TagEmphasis:
		return "Emphasis"
	case TagStrong:
		return "Strong"
	case TagStrikethrough:
		return "Strikethrough"
	case TagLink:
		return fmt.Sprintf("Link(%q)", t.URL)
	case TagImage:
		return fmt.Sprintf("Image(%q)", t.URL)
	}
	return fmt.Sprintf("Tag(%d)", t.Kind)
}
