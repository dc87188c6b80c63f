package domain

// Citation is one rendered source reference for a compiled note section
type Citation struct {
	NoteID string `json:"note_id"`
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
}

// CitationIndex maps a source note id to its citation number: the 1-based
// position of the id in the compiled note's source list. Numbers are stable
// for the lifetime of the compiled note, independent of how many sections
// actually cite each source.
func (c *CompiledNote) CitationIndex() map[string]int {
	index := make(map[string]int, len(c.SourceNoteIDs))
	for i, id := range c.SourceNoteIDs {
		index[id] = i + 1
	}
	return index
}

// SectionCitations resolves the citations to display for one section.
// Only ids present in the compiled note's source list are rendered; ids
// pointing at notes that no longer exist (resolve returns false) are
// silently dropped rather than surfaced as errors.
func (c *CompiledNote) SectionCitations(sec Section, resolve func(noteID string) (title string, ok bool)) []Citation {
	index := c.CitationIndex()

	var citations []Citation
	for _, id := range sec.SourceNoteIDs {
		number, cited := index[id]
		if !cited {
			continue
		}
		title, ok := resolve(id)
		if !ok {
			continue
		}
		citations = append(citations, Citation{NoteID: id, Number: number, Title: title})
	}
	return citations
}

// RemoveSource strips a source note id from the compiled note's source list
// and from every section's citation list. The compiled note and its
// remaining sections survive unchanged otherwise. Returns true if anything
// was removed.
func (c *CompiledNote) RemoveSource(noteID string) bool {
	removed := false

	filtered := c.SourceNoteIDs[:0]
	for _, id := range c.SourceNoteIDs {
		if id == noteID {
			removed = true
			continue
		}
		filtered = append(filtered, id)
	}
	c.SourceNoteIDs = filtered

	for i := range c.Content.Sections {
		sec := &c.Content.Sections[i]
		kept := sec.SourceNoteIDs[:0]
		for _, id := range sec.SourceNoteIDs {
			if id == noteID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		sec.SourceNoteIDs = kept
	}

	return removed
}

// CitesAny reports whether the compiled note references any of the given
// source note ids.
func (c *CompiledNote) CitesAny(noteIDs []string) bool {
	set := make(map[string]struct{}, len(noteIDs))
	for _, id := range noteIDs {
		set[id] = struct{}{}
	}
	for _, id := range c.SourceNoteIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
