package note

import (
	"context"

	"winetour-backend/internal/domain"
)

// CreateInput carries a new note. Context fields scope the note to a
// sub-topic (a day, a line item); both empty means a general note.
type CreateInput struct {
	TripProposalID int64
	AuthorType     string
	AuthorName     string
	Content        string
	ContextType    string
	ContextID      *int64
}

// ListFilter narrows notes within one proposal thread.
type ListFilter struct {
	TripProposalID int64
	GeneralOnly    bool
	ContextType    string
	ContextID      *int64
}

// Repository persists and fetches proposal notes.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.ProposalNote, error)
	List(ctx context.Context, f ListFilter) ([]domain.ProposalNote, error)
	// CountUnread counts unread notes for a proposal; when authorType is
	// non-empty only notes authored by that type are counted.
	CountUnread(ctx context.Context, proposalID int64, authorType string) (int, error)
	// MarkRead flips every unread note authored by authorType to read.
	MarkRead(ctx context.Context, proposalID int64, authorType string) error
	// MarkNoteRead flips a single note; idempotent on already-read notes.
	MarkNoteRead(ctx context.Context, noteID int64) error
}
