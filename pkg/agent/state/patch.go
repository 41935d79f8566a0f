package state

// Patch is a partial update of SessionState. Each field is either untouched,
// set to a new value, or cleared. A zero Patch changes nothing.
type Patch struct {
	disambiguationSet bool
	disambiguation    *Disambiguation
	draftSet          bool
	draft             *PendingDraft
}

func SetDisambiguation(d *Disambiguation) Patch {
	return Patch{disambiguationSet: true, disambiguation: d}
}

func ClearDisambiguation() Patch {
	return Patch{disambiguationSet: true}
}

func SetDraft(d *PendingDraft) Patch {
	return Patch{draftSet: true, draft: d}
}

func ClearDraft() Patch {
	return Patch{draftSet: true}
}

// Merge returns p overlaid with next; fields set in next win.
func (p Patch) Merge(next Patch) Patch {
	merged := p
	if next.disambiguationSet {
		merged.disambiguationSet = true
		merged.disambiguation = next.disambiguation
	}
	if next.draftSet {
		merged.draftSet = true
		merged.draft = next.draft
	}
	return merged
}

// Apply returns a copy of s with the patch applied.
func (p Patch) Apply(s SessionState) SessionState {
	if p.disambiguationSet {
		s.PendingDisambiguation = p.disambiguation
	}
	if p.draftSet {
		s.PendingDraft = p.draft
	}
	return s
}

func (p Patch) IsEmpty() bool {
	return !p.disambiguationSet && !p.draftSet
}

// Disambiguation reports the new value and whether the patch touches it.
func (p Patch) Disambiguation() (*Disambiguation, bool) {
	return p.disambiguation, p.disambiguationSet
}

// Draft reports the new value and whether the patch touches it.
func (p Patch) Draft() (*PendingDraft, bool) {
	return p.draft, p.draftSet
}
