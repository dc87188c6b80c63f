package runtime

import (
	"context"
	"sync"

	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Services holds references to dynamically configurable text generators.
// The live generator serves consolidation and cleanup; the compile generator
// serves multi-source compilation. Either can be reconfigured at runtime.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	liveGenerator    driven.TextGenerator
	compileGenerator driven.TextGenerator
}

// NewServices creates a new Services registry
func NewServices() *Services {
	return &Services{}
}

// LiveGenerator returns the current live-notes generator (may be nil)
func (s *Services) LiveGenerator() driven.TextGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveGenerator
}

// CompileGenerator returns the current compile generator (may be nil)
func (s *Services) CompileGenerator() driven.TextGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compileGenerator
}

// SetLiveGenerator updates the live-notes generator.
// Closes the old generator if present.
func (s *Services) SetLiveGenerator(gen driven.TextGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.liveGenerator != nil {
		_ = s.liveGenerator.Close()
	}
	s.liveGenerator = gen
}

// SetCompileGenerator updates the compile generator.
// Closes the old generator if present.
func (s *Services) SetCompileGenerator(gen driven.TextGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.compileGenerator != nil {
		_ = s.compileGenerator.Close()
	}
	s.compileGenerator = gen
}

// ValidateAndSetLiveGenerator validates connectivity before installing
func (s *Services) ValidateAndSetLiveGenerator(ctx context.Context, gen driven.TextGenerator) error {
	if gen == nil {
		s.SetLiveGenerator(nil)
		return nil
	}
	if err := gen.Ping(ctx); err != nil {
		_ = gen.Close()
		return err
	}
	s.SetLiveGenerator(gen)
	return nil
}

// ValidateAndSetCompileGenerator validates connectivity before installing
func (s *Services) ValidateAndSetCompileGenerator(ctx context.Context, gen driven.TextGenerator) error {
	if gen == nil {
		s.SetCompileGenerator(nil)
		return nil
	}
	if err := gen.Ping(ctx); err != nil {
		_ = gen.Close()
		return err
	}
	s.SetCompileGenerator(gen)
	return nil
}

// Close shuts down all generators
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.liveGenerator != nil {
		_ = s.liveGenerator.Close()
		s.liveGenerator = nil
	}
	if s.compileGenerator != nil {
		_ = s.compileGenerator.Close()
		s.compileGenerator = nil
	}
	return nil
}
