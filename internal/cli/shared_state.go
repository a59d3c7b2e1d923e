package cli

import (
	"context"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// The parent whose kids the dashboard shows.
	ParentID string

	// Active kid profile context
	ActiveProfileID   string
	ActiveProfileName string

	// Terminal dimensions
	Width  int
	Height int
}

// ClearProfileContext resets the active kid profile state.
func (s *SharedState) ClearProfileContext() {
	s.ActiveProfileID = ""
	s.ActiveProfileName = ""
}

// SetActiveProfile resolves a profile ID and sets the active context.
func (s *SharedState) SetActiveProfile(ctx context.Context, profileID string) {
	p, err := s.App.Profiles.GetByID(ctx, profileID)
	if err != nil {
		return
	}
	s.SetActiveProfileFrom(p)
}

// SetActiveProfileFrom sets the active context from an already-loaded profile.
func (s *SharedState) SetActiveProfileFrom(p *domain.KidProfile) {
	s.ActiveProfileID = p.ID
	s.ActiveProfileName = p.Name
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
