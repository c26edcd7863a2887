package tracing

// Span names.
const (
	SpanPipeline = "engine.pipeline"
	SpanDraftOp  = "drafts."
)

// Span attribute keys.
const (
	AttrEvent           = "edit.event"
	AttrContentChanged  = "edit.content_changed"
	AttrCanonicalLength = "value.length"
	AttrSegmentCount    = "value.segments"
	AttrMentionState    = "mention.state"
	AttrMentionQuery    = "mention.query"
	AttrCandidateCount  = "mention.candidates"
	AttrPlaceholder     = "placeholder.name"
	AttrFocused         = "surface.focused"
	AttrDraftName       = "draft.name"
)

// Event names.
const (
	EventMentionOpened = "mention.opened"
	EventMentionClosed = "mention.closed"
	EventRerender      = "surface.rerender"
)
