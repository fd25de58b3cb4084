package report

import (
	"fmt"

	"grant_finder/pkg/models"
)

// HeaderOffset is the height of the sticky navigation bar; scrolling to a
// section lands its heading just below it.
const HeaderOffset = 140.0

// Band is the part of the viewport, as fractions of its height, in which a
// heading counts as "in view". Top and Bottom are the margins cut off each end.
type Band struct {
	Top    float64
	Bottom float64
}

// DefaultBand marks a section active as soon as its heading crosses into the
// upper part of the screen.
var DefaultBand = Band{Top: 0.10, Bottom: 0.80}

// RootMargin renders the band in IntersectionObserver rootMargin syntax.
func (b Band) RootMargin() string {
	return fmt.Sprintf("-%.0f%% 0%% -%.0f%% 0%%", b.Top*100, b.Bottom*100)
}

// NavEntry is one link of the section navigation bar.
type NavEntry struct {
	ID     string
	Title  string
	Label  string
	Active bool
}

// Navigator holds the section navigation of a rendered report. The browser
// keeps the active section current while scrolling; the navigator decides
// the initial one.
type Navigator struct {
	Sections []models.ReportSection
	Band     Band

	active string
}

// NewNavigator builds a navigator over sections with the default band.
func NewNavigator(sections []models.ReportSection) *Navigator {
	return &Navigator{Sections: sections, Band: DefaultBand}
}

// Active returns the id of the selected section, or "".
func (n *Navigator) Active() string {
	return n.active
}

// Select makes id the active section. Unknown ids leave the selection alone.
func (n *Navigator) Select(id string) bool {
	if id == "" || n.Index(id) < 0 {
		return false
	}
	n.active = id
	return true
}

// Index returns the position of the first section with id, or -1.
func (n *Navigator) Index(id string) int {
	for i, s := range n.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Label is the numbered tag printed above the i-th section (zero based).
func Label(i int) string {
	return fmt.Sprintf("SEC-%02d", i+1)
}

// Entries lists the linkable sections in order. Sections without an id have
// nothing to scroll to and are left out. With duplicate ids only the first
// occurrence is marked active.
func (n *Navigator) Entries() []NavEntry {
	var entries []NavEntry
	marked := false
	for i, s := range n.Sections {
		if s.ID == "" {
			continue
		}
		active := !marked && n.active != "" && s.ID == n.active
		if active {
			marked = true
		}
		entries = append(entries, NavEntry{ID: s.ID, Title: s.Title, Label: Label(i), Active: active})
	}
	return entries
}
