package domain

import (
	"encoding/json"
	"testing"
)

func TestNoteContent_UnmarshalObject(t *testing.T) {
	var c NoteContent
	err := json.Unmarshal([]byte(`{"sections":[{"title":"A","content":"body"}]}`), &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Sections) != 1 || c.Sections[0].Title != "A" {
		t.Errorf("unexpected sections: %+v", c.Sections)
	}
}

func TestNoteContent_UnmarshalBareArray(t *testing.T) {
	var c NoteContent
	err := json.Unmarshal([]byte(`[{"title":"A","content":"body"},{"title":"B","content":"more"}]`), &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(c.Sections))
	}
}

func TestNoteContent_UnmarshalFreeform(t *testing.T) {
	var c NoteContent
	err := json.Unmarshal([]byte(`"just some text"`), &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsFreeform() || c.Freeform != "just some text" {
		t.Errorf("expected freeform content, got %+v", c)
	}
}

func TestNoteContent_UnmarshalNull(t *testing.T) {
	var c NoteContent
	if err := json.Unmarshal([]byte(`null`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Sections) != 0 || c.Freeform != "" {
		t.Errorf("expected empty content, got %+v", c)
	}
}

func TestNoteContent_UnmarshalBadShape(t *testing.T) {
	var c NoteContent
	if err := json.Unmarshal([]byte(`42`), &c); err == nil {
		t.Error("expected error for unsupported shape")
	}
}

func TestNoteContent_Validate(t *testing.T) {
	c := NoteContent{Sections: []Section{{Title: "A", Content: "body"}}}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := NoteContent{Sections: []Section{{}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty section")
	}
}

func TestNoteContent_RoundTrip(t *testing.T) {
	original := NoteContent{Sections: []Section{
		{Title: "A", Content: "body", SourceNoteIDs: []string{"n1"}},
	}}

	data, err := json.Marshal(&original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded NoteContent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Sections) != 1 || decoded.Sections[0].SourceNoteIDs[0] != "n1" {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}
