package render

import (
	"strings"

	"github.com/marktree/marktree/internal/doctree"
	"github.com/marktree/marktree/internal/event"
)

// isTaskList reports whether the first item of a list span opens with a
// task marker. The whole list styles as a task list when it does, a
// heuristic that misfires on ordinary text beginning with the literal
// marker.
func isTaskList(inner []event.Event) bool {
	if len(inner) < 2 {
		return false
	}
	if inner[0].Kind != event.KindStart || inner[0].Tag.Kind != event.TagListItem {
		return false
	}
	switch inner[1].Kind {
	case event.KindTaskMarker:
		return true
	case event.KindText:
		_, _, ok := splitTaskPrefix(inner[1].Literal)
		return ok
	}
	return false
}

// splitTaskPrefix strips a leading task marker from item text. Exactly the
// three four-byte prefixes "[ ] ", "[x] " and "[X] " count as markers.
func splitTaskPrefix(text string) (checked bool, rest string, ok bool) {
	switch {
	case strings.HasPrefix(text, "[ ] "):
		return false, text[4:], true
	case strings.HasPrefix(text, "[x] "), strings.HasPrefix(text, "[X] "):
		return true, text[4:], true
	}
	return false, "", false
}

func checkbox(checked bool) *doctree.Node {
	n := doctree.New("checkbox")
	if checked {
		n.SetAttr("checked", "true")
	} else {
		n.SetAttr("checked", "false")
	}
	return n
}

// externalURL reports whether a link target leaves the site.
func externalURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// resolveImageURL joins the configured base path onto relative image
// urls. Absolute urls pass through. A relative url that itself starts
// with a slash concatenates directly onto the base, double segment and
// all.
func resolveImageURL(base, url string) string {
	if base == "" || externalURL(url) {
		return url
	}
	if strings.HasPrefix(url, "/") {
		return base + url
	}
	return base + "/" + url
}

// flattenText collapses a span's leaf content into one string: text and
// inline code verbatim, soft breaks as newlines, hard breaks as blank
// lines. Nested tags contribute their leaves, nothing else. Code block
// bodies and image alt text both flatten this way.
func flattenText(inner []event.Event) string {
	var b strings.Builder
	for _, ev := range inner {
		switch ev.Kind {
		case event.KindText, event.KindInlineCode:
			b.WriteString(ev.Literal)
		case event.KindSoftBreak:
			b.WriteString("\n")
		case event.KindHardBreak:
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
