package stream

import "testing"

func TestSafeBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "too short",
			text: "hello",
			want: -1,
		},
		{
			name: "no paragraph break",
			text: "one long line of text without any paragraph breaks anywhere in it",
			want: -1,
		},
		{
			name: "single break",
			text: "First paragraph here.\n\nSecond paragraph starts",
			want: 23,
		},
		{
			name: "latest break wins",
			text: "First para.\n\nSecond para.\n\nThird paragraph starts here",
			want: 27,
		},
		{
			name: "break inside code block is unsafe",
			text: "Before code.\n\n```\ncode here\n\nmore code\n```\n\nAfter",
			want: 44,
		},
		{
			name: "unclosed code block",
			text: "Before code.\n\n```\ncode here\n\nmore code without closing",
			want: 14,
		},
		{
			name: "unclosed bold",
			text: "First paragraph with **unclosed bold and no break yet",
			want: -1,
		},
		{
			name: "balanced inline markers",
			text: "Some **bold** and *italic* text.\n\nMore text here",
			want: 34,
		},
		{
			name: "code span shields stars",
			text: "Some `code with **stars**` here.\n\nMore text",
			want: 34,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeBoundary(tt.text)
			if got != tt.want {
				t.Errorf("SafeBoundary() = %d, want %d", got, tt.want)
				if got >= 0 && got <= len(tt.text) {
					t.Errorf("  got prefix %q", tt.text[:got])
				}
			}
		})
	}
}

func TestInsideFence(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   bool
	}{
		{"no fences", "plain text\n", false},
		{"open fence", "text\n```\ncode\n", true},
		{"closed fence", "text\n```\ncode\n```\nafter\n", false},
		{"indented fence", "  ```\ncode\n", true},
		{"tilde fence", "~~~\ncode\n", true},
		{"inline backticks ignored", "some `inline` code\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insideFence(tt.prefix); got != tt.want {
				t.Errorf("insideFence(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestInlineBalanced(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain", "no markers at all", true},
		{"balanced bold", "some **bold** text", true},
		{"unclosed bold", "some **bold text", false},
		{"balanced star", "some *italic* text", true},
		{"unclosed star", "some *italic text", false},
		{"balanced code span", "some `code` here", true},
		{"unclosed code span", "some `code here", false},
		{"double backtick span", "some ``code with ` inside`` here", true},
		{"unclosed double backtick", "some ``code here", false},
		{"balanced strike", "some ~~gone~~ text", true},
		{"unclosed strike", "some ~~gone text", false},
		{"nested", "**bold with *italic* inside**", true},
		{"stars inside code span", "`**` alone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inlineBalanced(tt.text); got != tt.want {
				t.Errorf("inlineBalanced(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
