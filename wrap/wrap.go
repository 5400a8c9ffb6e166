// Package wrap breaks text into lines that fit a given width.
//
// Words are accumulated greedily. A single word that is wider than the line is broken
// with a hyphen at the longest prefix that still fits, found by binary search over the
// prefix length. A Wrapper holds no mutable state: calling Wrap twice with the same input
// returns the same lines.
package wrap

import (
	"strings"

	"github.com/lvillar/weeklyreport/fontmetrics"
)

// DefaultMaxChars is the default cap on field length before wrapping.
const DefaultMaxChars = 200

const (
	ellipsis = "..."
	hyphen   = "-"

	// minPrefix is the shortest hyphenated stub, unless the word itself is shorter
	// than minPrefix+1 runes.
	minPrefix = 3
)

// Wrapper wraps text set in Font, measured with Metrics.
type Wrapper struct {
	Metrics fontmetrics.Provider
	Font    fontmetrics.Font

	// MaxChars truncates longer text to MaxChars runes (including the ellipsis)
	// before wrapping. Zero disables truncation.
	MaxChars int
}

// New returns a Wrapper with the default field cap.
func New(m fontmetrics.Provider, f fontmetrics.Font) Wrapper {
	return Wrapper{Metrics: m, Font: f, MaxChars: DefaultMaxChars}
}

func (w Wrapper) width(s string) float64 {
	return w.Metrics.Width(s, w.Font)
}

// Wrap splits text on whitespace and returns the lines that fit maxWidth.
// Empty text yields a single empty line.
func (w Wrapper) Wrap(text string, maxWidth float64) []string {
	text = Truncate(text, w.MaxChars)
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   string
	)
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if w.width(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		if w.width(word) > maxWidth {
			parts := w.BreakWord(word, maxWidth)
			lines = append(lines, parts[:len(parts)-1]...)
			cur = parts[len(parts)-1]
		} else {
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// BreakWord splits a single word into hyphenated pieces no wider than maxWidth.
// All pieces but the last end with a hyphen; the last piece is the remainder that fits.
func (w Wrapper) BreakWord(word string, maxWidth float64) []string {
	if word == "" {
		return []string{""}
	}

	var lines []string
	remaining := []rune(word)
	for len(remaining) > 0 {
		if w.width(string(remaining)) <= maxWidth {
			lines = append(lines, string(remaining))
			break
		}

		best := 1
		lo, hi := 1, len(remaining)
		for lo <= hi {
			mid := (lo + hi) / 2
			if w.width(string(remaining[:mid])+hyphen) <= maxWidth {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		if best < minPrefix && len(remaining) > minPrefix {
			best = minPrefix
		}
		if best >= len(remaining) {
			// Only reachable when the minimum stub swallows a short tail; emit it as is.
			lines = append(lines, string(remaining))
			break
		}

		lines = append(lines, string(remaining[:best])+hyphen)
		remaining = remaining[best:]
	}
	return lines
}

// Lines returns the number of lines text occupies at maxWidth.
func (w Wrapper) Lines(text string, maxWidth float64) int {
	return len(w.Wrap(text, maxWidth))
}

// Ellipsize shortens a single line until it fits maxWidth: four runes are dropped and an
// ellipsis appended per step. It stops once the text is at most minRunes long.
func (w Wrapper) Ellipsize(text string, maxWidth float64, minRunes int) string {
	if minRunes < len(ellipsis) {
		minRunes = len(ellipsis)
	}
	r := []rune(text)
	for w.width(string(r)) > maxWidth && len(r) > minRunes {
		cut := len(r) - 4
		if cut < 0 {
			cut = 0
		}
		r = append(r[:cut:cut], []rune(ellipsis)...)
	}
	return string(r)
}

// Truncate caps text at maxChars runes, replacing the tail with an ellipsis.
// A non-positive maxChars returns text unchanged.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= maxChars {
		return text
	}
	keep := maxChars - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + ellipsis
}
