package testutil

import "time"

// draftData holds a draft to be inserted.
type draftData struct {
	id        string
	name      string
	mode      string
	createdAt time.Time
	revisions []string
	step      time.Duration
}

// DraftOption configures a draft in the builder.
type DraftOption func(*draftData)

func defaultDraft(name string) draftData {
	return draftData{
		id:        "draft-" + name,
		name:      name,
		createdAt: time.UnixMilli(1_700_000_000_000),
		step:      time.Second,
	}
}

// ID sets the draft ID. The default is "draft-" + name.
func ID(id string) DraftOption {
	return func(d *draftData) { d.id = id }
}

// Mode sets the catalog mode the draft was saved in.
func Mode(mode string) DraftOption {
	return func(d *draftData) { d.mode = mode }
}

// CreatedAt sets the creation time. Revision i is saved i steps later.
func CreatedAt(t time.Time) DraftOption {
	return func(d *draftData) { d.createdAt = t }
}

// Step sets the time between consecutive revisions.
func Step(step time.Duration) DraftOption {
	return func(d *draftData) { d.step = step }
}

// Revisions appends revision values, oldest first.
func Revisions(values ...string) DraftOption {
	return func(d *draftData) { d.revisions = append(d.revisions, values...) }
}
