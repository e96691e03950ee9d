package domain

// Status is the publication state of a page.
type Status string

const (
	// StatusDraft pages are only visible in the editor preview.
	StatusDraft Status = "draft"
	// StatusPublished pages are served on the public site.
	StatusPublished Status = "published"
)

// StatusFor maps the persisted published flag to a Status.
func StatusFor(published bool) Status {
	if published {
		return StatusPublished
	}
	return StatusDraft
}

// Published reports whether s is the published state.
func (s Status) Published() bool { return s == StatusPublished }
