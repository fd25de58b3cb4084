package report

import (
	"regexp"
	"strings"
)

// LineKind classifies one line of section content.
type LineKind int

const (
	LineBlank LineKind = iota
	LineHeading3
	LineHeading4
	LineBullet
	LineLabeled
	LineParagraph
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeading3:
		return "heading-3"
	case LineHeading4:
		return "heading-4"
	case LineBullet:
		return "bullet"
	case LineLabeled:
		return "labeled-paragraph"
	default:
		return "paragraph"
	}
}

// FragmentKind is the inline style of a rendered fragment.
type FragmentKind int

const (
	FragText FragmentKind = iota
	FragBold
	FragLink
)

// Fragment is one run of inline content. Href is set for links only.
type Fragment struct {
	Kind FragmentKind `json:"kind"`
	Text string       `json:"text"`
	Href string       `json:"href,omitempty"`
}

func (f Fragment) IsLink() bool { return f.Kind == FragLink }
func (f Fragment) IsBold() bool { return f.Kind == FragBold }

// Block is a rendered line: its classification plus inline fragments.
// Mirrored carries the right-to-left hint; it only flips icons, never text.
type Block struct {
	Kind      LineKind   `json:"kind"`
	Fragments []Fragment `json:"fragments,omitempty"`
	Mirrored  bool       `json:"mirrored,omitempty"`
}

const (
	heading3Marker = "### "
	heading4Marker = "#### "
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s]+`)
	urlTrailing   = regexp.MustCompile(`[.,)]+$`)
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	labelPattern  = regexp.MustCompile(`^(\*\*.*?\*\*|.*?:)`)
	bulletMarkers = []string{"- ", "* "}
)

// ClassifyLine decides how a line is laid out. Rules are checked in order and
// the first match wins.
func ClassifyLine(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return LineBlank
	case strings.HasPrefix(trimmed, heading3Marker):
		return LineHeading3
	case strings.HasPrefix(trimmed, heading4Marker):
		return LineHeading4
	case hasBulletMarker(trimmed):
		return LineBullet
	case labelPattern.MatchString(trimmed):
		return LineLabeled
	default:
		return LineParagraph
	}
}

func hasBulletMarker(s string) bool {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

// RenderBlock classifies line and renders its inline content.
func RenderBlock(line string, rtl bool) Block {
	trimmed := strings.TrimSpace(line)
	b := Block{Kind: ClassifyLine(trimmed), Mirrored: rtl}
	switch b.Kind {
	case LineBlank:
	case LineHeading3, LineHeading4:
		b.Fragments = []Fragment{{Kind: FragText, Text: leadingHashes.ReplaceAllString(trimmed, "")}}
	case LineBullet:
		b.Fragments = RenderLine(trimmed[2:])
	default:
		b.Fragments = RenderLine(trimmed)
	}
	return b
}

// RenderContent renders every line of a section body.
func RenderContent(content string, rtl bool) []Block {
	lines := strings.Split(content, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, l := range lines {
		blocks = append(blocks, RenderBlock(l, rtl))
	}
	return blocks
}

// RenderLine applies the inline transforms to one line of text: URLs first,
// then bold spans inside the non-URL text.
func RenderLine(text string) []Fragment {
	var out []Fragment
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		out = append(out, renderBold(text[last:loc[0]])...)
		href := urlTrailing.ReplaceAllString(text[loc[0]:loc[1]], "")
		out = append(out, Fragment{Kind: FragLink, Text: href, Href: href})
		last = loc[1]
	}
	return append(out, renderBold(text[last:])...)
}

// renderBold splits s on paired ** delimiters. Pieces inside a pair are bold,
// the rest literal. An unpaired ** stays as literal text.
func renderBold(s string) []Fragment {
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "**") {
		return []Fragment{{Kind: FragText, Text: s}}
	}

	var out []Fragment
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			out = append(out, Fragment{Kind: FragText, Text: s[last:m[0]]})
		}
		out = append(out, Fragment{Kind: FragBold, Text: s[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, Fragment{Kind: FragText, Text: s[last:]})
	}
	return out
}

// PlainText joins fragments back into unstyled text.
func PlainText(frags []Fragment) string {
	var sb strings.Builder
	for _, f := range frags {
		sb.WriteString(f.Text)
	}
	return sb.String()
}
