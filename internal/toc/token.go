// Package toc builds the table of contents of a document from the flat token
// stream produced by a Markdown tokenizer.
//
// The builder works in two phases. BuildTree walks the token stream with
// recursive frames, one frame per nesting level, and returns the heading tree.
// Render serializes that tree to the nested <ul class="toc-headings"> outline.
// Both phases are pure: the same token sequence always yields the same bytes.
package toc

import (
	"strconv"
	"strings"
)

// Kind identifies the role of a token in the stream.
type Kind int

const (
	KindOther Kind = iota
	KindHeadingOpen
	KindInline
	KindHeadingClose
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindHeadingOpen:
		return "heading_open"
	case KindInline:
		return "inline"
	case KindHeadingClose:
		return "heading_close"
	default:
		return "other"
	}
}

// Token is one structural event of a tokenized document.
type Token struct {
	Kind Kind

	// Level is the heading depth, set on heading open and close tokens.
	Level int

	// Content is the literal heading text, set on inline tokens.
	Content string

	// AnchorID is the in-page link target of the heading, set on inline
	// tokens. Empty when the tokenizer could not attach one.
	AnchorID string
}

// HeadingOpen returns a heading_open token.
func HeadingOpen(level int) Token {
	return Token{Kind: KindHeadingOpen, Level: level}
}

// HeadingClose returns a heading_close token.
func HeadingClose(level int) Token {
	return Token{Kind: KindHeadingClose, Level: level}
}

// Inline returns an inline content token.
func Inline(content, anchorID string) Token {
	return Token{Kind: KindInline, Content: content, AnchorID: anchorID}
}

// Other returns an inert token.
func Other() Token {
	return Token{Kind: KindOther}
}

// LevelFromTag extracts the heading level from a tag such as "h3".
// It returns 0 when tag is not a heading tag.
func LevelFromTag(tag string) int {
	if len(tag) < 2 || (tag[0] != 'h' && tag[0] != 'H') {
		return 0
	}
	level, err := strconv.Atoi(tag[1:])
	if err != nil || level < 1 {
		return 0
	}
	return level
}

// hasText reports whether an inline token carries renderable heading text.
func (t Token) hasText() bool {
	return t.Kind == KindInline && strings.TrimSpace(t.Content) != ""
}
