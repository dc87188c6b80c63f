package services

import (
	"context"
	"testing"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven/mocks"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
	"github.com/notefold/notefold-core/internal/runtime"
)

func newCleanupFixture(t *testing.T) (driving.CleanupService, *mocks.MockTextGenerator, *mocks.MockEventSink) {
	t.Helper()
	generator := mocks.NewMockTextGenerator()
	registry := runtime.NewServices()
	registry.SetLiveGenerator(generator)
	events := mocks.NewMockEventSink()
	return NewCleanupService(registry, events, nil), generator, events
}

func TestCleanupConsolidatesSections(t *testing.T) {
	svc, generator, events := newCleanupFixture(t)
	generator.Queue(`[{"title": "Roadmap", "content": "Beta ships November. Budget approved."}]`)

	input := []domain.Section{
		{Title: "Roadmap", Content: "Beta in October"},
		{Title: "Roadmap Updates", Content: "Slipped to November"},
		{Title: "Budget", Content: "Approved"},
	}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 consolidated section, got %d", len(cleaned))
	}
	if cleaned[0].Title != "Roadmap" {
		t.Errorf("section title = %q", cleaned[0].Title)
	}
	if got := events.OfType(domain.EventSectionsCleaned); len(got) != 1 {
		t.Errorf("expected one sections.cleaned event, got %d", len(got))
	}
}

func TestCleanupFailsOpenOnGeneratorError(t *testing.T) {
	svc, generator, _ := newCleanupFixture(t)
	generator.SetFailNext(true)

	input := []domain.Section{{Title: "Roadmap", Content: "Beta in October"}}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v, want nil on failure", err)
	}
	if len(cleaned) != 1 || cleaned[0].Content != "Beta in October" {
		t.Errorf("expected original sections back, got %+v", cleaned)
	}
}

func TestCleanupFailsOpenOnMalformedResponse(t *testing.T) {
	svc, generator, _ := newCleanupFixture(t)
	generator.Queue(`{"oops": true}`)

	input := []domain.Section{{Title: "Roadmap", Content: "Beta in October"}}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v, want nil on malformed response", err)
	}
	if len(cleaned) != 1 || cleaned[0].Title != "Roadmap" {
		t.Errorf("expected original sections back, got %+v", cleaned)
	}
}

func TestCleanupFailsOpenWhenAllSectionsUnusable(t *testing.T) {
	svc, generator, _ := newCleanupFixture(t)
	generator.Queue(`[{"title": "", "content": ""}]`)

	input := []domain.Section{{Title: "Roadmap", Content: "Beta in October"}}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(cleaned) != 1 || cleaned[0].Content != "Beta in October" {
		t.Errorf("expected original sections back, got %+v", cleaned)
	}
}

func TestCleanupCarriesAttributionUnion(t *testing.T) {
	svc, generator, _ := newCleanupFixture(t)
	generator.Queue(`[{"title": "Merged", "content": "Everything in one place."}]`)

	input := []domain.Section{
		{Title: "A", Content: "x", SourceNoteIDs: []string{"note-1"}},
		{Title: "B", Content: "y", SourceNoteIDs: []string{"note-2", "note-1"}},
	}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 section, got %d", len(cleaned))
	}
	want := []string{"note-1", "note-2"}
	got := cleaned[0].SourceNoteIDs
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SourceNoteIDs = %v, want %v", got, want)
	}
}

func TestCleanupEmptyInputIsNoOp(t *testing.T) {
	svc, generator, _ := newCleanupFixture(t)

	cleaned, err := svc.Cleanup(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(cleaned) != 0 {
		t.Errorf("expected no sections, got %+v", cleaned)
	}
	if generator.Calls() != 0 {
		t.Errorf("generator called %d times for empty input", generator.Calls())
	}
}

func TestCleanupWithoutGeneratorReturnsOriginal(t *testing.T) {
	svc := NewCleanupService(runtime.NewServices(), nil, nil)

	input := []domain.Section{{Title: "Roadmap", Content: "Beta in October"}}
	cleaned, err := svc.Cleanup(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if len(cleaned) != 1 {
		t.Errorf("expected original sections back, got %+v", cleaned)
	}
}
