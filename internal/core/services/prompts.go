package services

import (
	"fmt"
	"strings"

	"github.com/notefold/notefold-core/internal/core/domain"
)

func sectionsContext(sections []domain.Section) string {
	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Section %d: %s\n%s", i+1, sec.Title, sec.Content)
	}
	return b.String()
}

func consolidatePrompt(chunk string, sections []domain.Section) string {
	return fmt.Sprintf(`You are summarizing a meeting transcript chunk. Your goal is to CONSOLIDATE content into fewer, well-organized sections.

EXISTING NOTES:
%s

NEW TRANSCRIPT CHUNK:
%s

IMPORTANT INSTRUCTIONS:
1. STRONGLY prefer updating existing sections over creating new ones
2. Only create a new section if the chunk discusses a COMPLETELY different topic that doesn't fit any existing section
3. When updating, add the new information to the existing section's content (append, don't replace)
4. Group related topics together - don't create micro-sections for every small detail
5. Aim for 3-6 total sections maximum - consolidate similar topics

Return ONLY a JSON array:
[
  {
    "action": "update" | "add",
    "index": number (for "update" use the 0-based existing section index, for "add" use -1),
    "title": "brief section title (keep existing title when updating)",
    "content": "the new information to fold in"
  }
]

Prioritize consolidation over fragmentation.`, sectionsContext(sections), chunk)
}

func seedPrompt(chunk, meetingTitle string) string {
	title := ""
	if meetingTitle != "" {
		title = "\nMeeting: " + meetingTitle
	}
	return fmt.Sprintf(`You are summarizing a meeting transcript chunk. Your goal is to create CONSOLIDATED notes with fewer, well-organized sections.

TRANSCRIPT CHUNK:
%s%s

IMPORTANT: Group related topics together. Don't create a new section for every small detail.
- Aim for 1-3 sections maximum per chunk
- Group similar topics under the same section
- Only create separate sections for distinctly different topics

Return ONLY a JSON object:
{
  "title": "meeting title",
  "sections": [
    {
      "title": "broad topic name",
      "content": "consolidated summary of related points"
    }
  ]
}

Keep sections consolidated and well-organized.`, chunk, title)
}

func cleanupPrompt(sections []domain.Section) string {
	return fmt.Sprintf(`You are consolidating and cleaning up meeting notes before saving.

CURRENT SECTIONS:
%s

TASK: Clean up and consolidate these sections by:
1. MERGING sections with similar headings - group all related topics under the same heading
2. Reducing the total number of sections (aim for 3-6 sections maximum)
3. Removing unfinished or fragmented sentences and incomplete thoughts
4. Removing duplicate information across sections
5. Keeping section titles broad and descriptive

Return ONLY a JSON array of cleaned and consolidated sections:
[
  {
    "title": "broad consolidated section title",
    "content": "cleaned, merged, well-organized content with no unfinished ideas"
  }
]`, sectionsContext(sections))
}

func transcriptPrompt(transcript, meetingTitle string) string {
	title := ""
	if meetingTitle != "" {
		title = "\nMeeting: " + meetingTitle
	}
	return fmt.Sprintf(`You are turning a complete meeting transcript into well-organized notes.

TRANSCRIPT:
%s%s

TASK: Produce consolidated notes covering the whole transcript:
1. Group related topics under broad, descriptive section titles
2. Aim for 3-6 sections maximum
3. Capture decisions, action items and key points; drop filler and small talk
4. Suggest a handful of short topical tags

Return ONLY a JSON object:
{
  "title": "meeting title",
  "sections": [
    {
      "title": "broad topic name",
      "content": "consolidated summary of related points"
    }
  ],
  "tags": ["tag1", "tag2"]
}`, transcript, title)
}

func metadataPrompt(title string, content domain.NoteContent) string {
	var body string
	if content.IsFreeform() {
		body = content.Freeform
	} else {
		body = sectionsContext(content.Sections)
	}
	heading := ""
	if title != "" {
		heading = "Current title: " + title + "\n\n"
	}
	return fmt.Sprintf(`You are naming and tagging a note.

%sNOTE CONTENT:
%s

TASK: Suggest a concise descriptive title and 3-5 short topical tags for this note. Tags are lowercase single words or short phrases.

Return ONLY a JSON object:
{ "title": "suggested title", "tags": ["tag1", "tag2"] }`, heading, body)
}

func compilePrompt(notes []*domain.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compile these %d notes into one comprehensive note:\n\n", len(notes))
	for i, note := range notes {
		fmt.Fprintf(&b, "Note %d (ID: %s): %s\n", i+1, note.ID, note.Title)
		if note.Content.IsFreeform() {
			b.WriteString(note.Content.Freeform)
			b.WriteString("\n")
		} else {
			for _, sec := range note.Content.Sections {
				fmt.Fprintf(&b, "## %s\n%s\n", sec.Title, sec.Content)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(`Combine the key information, remove redundancies, and present it in a clear structure with sections.

Provide the output as ONLY a JSON object with this structure:
{ "title": "compiled title", "sections": [{ "title": "section name", "content": "section content", "source_note_ids": ["note-id-1", "note-id-2"] }] }

For each section, include a "source_note_ids" array containing the IDs of the notes that contributed to that section. If a section draws from multiple notes, include all relevant note IDs.`)
	return b.String()
}
