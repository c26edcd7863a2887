// Package revdiff compares two canonical template values word by word,
// treating every placeholder as a single token so a change never splits one.
package revdiff

import (
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/mergefield/internal/segment"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// Timeout bounds a single diff. Past it the result is still correct but
// coarser.
const Timeout = 100 * time.Millisecond

// Op is the kind of a change.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "equal"
	}
}

// Change is a run of text with the same Op.
type Change struct {
	Op   Op
	Text string
}

// Tokenize splits canonical text into placeholders, words, whitespace and
// single punctuation characters.
func Tokenize(canonical string) []string {
	var tokens []string
	for _, seg := range segment.Parse(canonical) {
		if seg.IsToken() {
			tokens = append(tokens, seg.String())
			continue
		}
		tokens = append(tokens, splitWords(seg.Text)...)
	}
	return tokens
}

func splitWords(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			flush()
			tokens = append(tokens, string(r))
			continue
		}
		word.WriteRune(r)
	}
	flush()
	return tokens
}

// Diff returns the token-level changes that turn before into after.
func Diff(before, after string) []Change {
	if before == after {
		if before == "" {
			return nil
		}
		return []Change{{Op: Equal, Text: before}}
	}

	// Each distinct token becomes one rune so the character diff works on
	// whole tokens.
	table := map[string]rune{}
	var vocab []string
	encode := func(tokens []string) string {
		rs := make([]rune, len(tokens))
		for i, t := range tokens {
			r, ok := table[t]
			if !ok {
				r = rune(0xE000 + len(vocab)) // private use area
				table[t] = r
				vocab = append(vocab, t)
			}
			rs[i] = r
		}
		return string(rs)
	}
	a := encode(Tokenize(before))
	b := encode(Tokenize(after))

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = Timeout
	diffs := dmp.DiffMainRunes([]rune(a), []rune(b), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	changes := make([]Change, 0, len(diffs))
	for _, d := range diffs {
		var text strings.Builder
		for _, r := range d.Text {
			if i := int(r - 0xE000); i >= 0 && i < len(vocab) {
				text.WriteString(vocab[i])
			}
		}
		changes = append(changes, Change{Op: opOf(d.Type), Text: text.String()})
	}
	return changes
}

func opOf(t diffmatchpatch.Operation) Op {
	switch t {
	case diffmatchpatch.DiffInsert:
		return Insert
	case diffmatchpatch.DiffDelete:
		return Delete
	default:
		return Equal
	}
}

// Placeholders reports placeholder names that appear in after but not in
// before (added) and the reverse (removed), in order of first appearance.
func Placeholders(before, after string) (added, removed []string) {
	b := set(segment.Names(segment.Parse(before)))
	a := set(segment.Names(segment.Parse(after)))
	for _, n := range segment.Names(segment.Parse(after)) {
		if !b[n] && !contains(added, n) {
			added = append(added, n)
		}
	}
	for _, n := range segment.Names(segment.Parse(before)) {
		if !a[n] && !contains(removed, n) {
			removed = append(removed, n)
		}
	}
	return added, removed
}

func set(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Render styles changes for the terminal: insertions underlined in the added
// color, deletions struck through in the removed color.
func Render(changes []Change) string {
	var b strings.Builder
	for _, c := range changes {
		switch c.Op {
		case Insert:
			b.WriteString(styles.DiffAddedStyle.Render(c.Text))
		case Delete:
			b.WriteString(styles.DiffRemovedStyle.Render(c.Text))
		default:
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// Unified renders changes without color using [-removed-] and {+added+}
// markers, for plain output and tests.
func Unified(changes []Change) string {
	var b strings.Builder
	for _, c := range changes {
		switch c.Op {
		case Insert:
			b.WriteString("{+" + c.Text + "+}")
		case Delete:
			b.WriteString("[-" + c.Text + "-]")
		default:
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
