// Package mention detects an in-progress placeholder search ("@query") in the
// text preceding the caret and tracks it as a session with an explicit
// lifecycle: Idle until a trigger is typed, Active while the text before the
// caret still matches, and back to Idle on mismatch, cancel, blur or an
// outside click.
package mention

import (
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/surface"
)

// Marker is the character that starts a placeholder search.
const Marker = '@'

// triggerPattern matches a marker at the start of the run or after whitespace
// or a brace, followed by word characters up to the caret. NBSP counts as
// whitespace because committed chips are followed by one.
var triggerPattern = regexp.MustCompile(`(?:^|[\s\x{00A0}{}])@(\w*)$`)

// MatchQuery returns the query typed after the marker at the end of runText.
func MatchQuery(runText string) (string, bool) {
	m := triggerPattern.FindStringSubmatch(runText)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// State is the machine state.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Session describes an active placeholder search.
type Session struct {
	ID     string
	Query  string
	Anchor surface.Point
	// Start is the caret unit of the marker. The trigger span is
	// [Start, Start+1+len(Query)).
	Start int
}

// End returns the caret just past the typed query.
func (s Session) End() int {
	return s.Start + 1 + utf8.RuneCountInString(s.Query)
}

// Input is the editor state observed after one event.
type Input struct {
	// RunText is the text of the literal run from its start up to the caret.
	RunText string
	// Collapsed is false when the selection is a range.
	Collapsed bool
	// Caret is the caret unit.
	Caret int
	// Anchor is the on-screen caret position.
	Anchor surface.Point
	// ContentChanged is true for events that modified the content. Only
	// those can open a session; caret moves can only update or close one.
	ContentChanged bool
}

// Transition reports what an evaluation did.
type Transition int

const (
	NoChange Transition = iota
	Opened
	Updated
	Closed
)

func (t Transition) String() string {
	switch t {
	case Opened:
		return "opened"
	case Updated:
		return "updated"
	case Closed:
		return "closed"
	default:
		return "none"
	}
}

// Machine is the trigger state machine. The zero value is Idle.
type Machine struct {
	session *Session
}

// State returns the current state.
func (m *Machine) State() State {
	if m.session != nil {
		return Active
	}
	return Idle
}

// Session returns the active session.
func (m *Machine) Session() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Evaluate re-runs trigger detection against the current editor state.
func (m *Machine) Evaluate(in Input) Transition {
	query, ok := "", false
	if in.Collapsed {
		query, ok = MatchQuery(in.RunText)
	}

	if m.session == nil {
		if !ok || !in.ContentChanged {
			return NoChange
		}
		m.session = &Session{
			ID:     uuid.NewString(),
			Query:  query,
			Anchor: in.Anchor,
			Start:  in.Caret - 1 - utf8.RuneCountInString(query),
		}
		log.Debug(log.CatMention, "session opened", "id", m.session.ID, "query", query)
		return Opened
	}

	if !ok {
		m.close("pattern mismatch")
		return Closed
	}
	m.session.Query = query
	m.session.Anchor = in.Anchor
	m.session.Start = in.Caret - 1 - utf8.RuneCountInString(query)
	return Updated
}

// Cancel ends the session. Calling it while Idle is a no-op.
func (m *Machine) Cancel() Transition {
	return m.end("cancel")
}

// Blur ends the session because the editing surface lost focus.
func (m *Machine) Blur() Transition {
	return m.end("blur")
}

// ClickOutside ends the session because of a pointer press outside both the
// surface and the popup.
func (m *Machine) ClickOutside() Transition {
	return m.end("outside click")
}

// Finish ends the session after a commit.
func (m *Machine) Finish() Transition {
	return m.end("commit")
}

func (m *Machine) end(reason string) Transition {
	if m.session == nil {
		return NoChange
	}
	m.close(reason)
	return Closed
}

func (m *Machine) close(reason string) {
	log.Debug(log.CatMention, "session closed", "id", m.session.ID, "reason", reason)
	m.session = nil
}
