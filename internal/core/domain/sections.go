package domain

import "strings"

// ApplyUpdates folds a list of section updates into an existing section list
// and returns the result. Updates addressing an index outside the current
// list are dropped. Adds that would duplicate an existing (title, content)
// pair are skipped, so the result never contains two byte-identical sections.
func ApplyUpdates(existing []Section, updates []SectionUpdate) []Section {
	result := make([]Section, len(existing))
	copy(result, existing)

	for _, u := range updates {
		switch {
		case u.Action == ActionUpdate && u.Index >= 0 && u.Index < len(result):
			current := result[u.Index]
			title := current.Title
			if u.Section.Title != "" {
				title = u.Section.Title
			}
			result[u.Index] = Section{
				Title:         title,
				Content:       MergeSectionContent(current.Content, u.Section.Content),
				SourceNoteIDs: current.SourceNoteIDs,
			}
		case u.Action == ActionAdd || u.Index == -1:
			if !containsSection(result, u.Section) {
				result = append(result, u.Section)
			}
		}
	}

	return result
}

// MergeSectionContent merges new content into existing section content.
// Identical or already-contained content (case-insensitive) is a no-op,
// which keeps repeated applications of the same update from growing the
// section. Otherwise the new content is appended after a blank line.
func MergeSectionContent(existing, incoming string) string {
	trimmed := strings.TrimSpace(incoming)
	if trimmed == "" {
		return existing
	}

	if strings.EqualFold(trimmed, strings.TrimSpace(existing)) {
		return existing
	}

	if strings.Contains(strings.ToLower(existing), strings.ToLower(trimmed)) {
		return existing
	}

	return existing + "\n\n" + incoming
}

func containsSection(sections []Section, candidate Section) bool {
	for _, s := range sections {
		if s.Title == candidate.Title && s.Content == candidate.Content {
			return true
		}
	}
	return false
}
