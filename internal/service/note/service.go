package note

import (
	"context"
	"strings"

	"winetour-backend/internal/domain"
	noterepo "winetour-backend/internal/repository/note"

	"go.uber.org/zap"
)

// Service owns per-proposal note threads. Read state is per note and
// asymmetric: a note is "unread" only from the perspective of the audience
// opposite its author.
type Service struct {
	repo   noterepo.Repository
	logger *zap.SugaredLogger
}

// New creates a Service.
func New(repo noterepo.Repository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput mirrors the note creation payload.
type CreateInput struct {
	AuthorType  string `json:"authorType"`
	AuthorName  string `json:"authorName"`
	Content     string `json:"content"`
	ContextType string `json:"contextType"`
	ContextID   *int64 `json:"contextId"`
}

// ListInput narrows a proposal's notes.
type ListInput struct {
	GeneralOnly bool
	ContextType string
	ContextID   *int64
}

// Create validates and inserts a note; notes always start unread.
func (s *Service) Create(ctx context.Context, proposalID int64, in CreateInput) (*domain.ProposalNote, error) {
	if proposalID <= 0 {
		return nil, domain.NewValidation("proposalId", "required")
	}
	if !domain.ValidAuthorType(in.AuthorType) {
		return nil, domain.NewValidation("authorType", "must be client or staff")
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		return nil, domain.NewValidation("authorName", "required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.NewValidation("content", "required")
	}
	return s.repo.Create(ctx, noterepo.CreateInput{
		TripProposalID: proposalID,
		AuthorType:     in.AuthorType,
		AuthorName:     strings.TrimSpace(in.AuthorName),
		Content:        strings.TrimSpace(in.Content),
		ContextType:    strings.TrimSpace(in.ContextType),
		ContextID:      in.ContextID,
	})
}

// List returns a proposal's notes oldest first.
func (s *Service) List(ctx context.Context, proposalID int64, in ListInput) ([]domain.ProposalNote, error) {
	return s.repo.List(ctx, noterepo.ListFilter{
		TripProposalID: proposalID,
		GeneralOnly:    in.GeneralOnly,
		ContextType:    strings.TrimSpace(in.ContextType),
		ContextID:      in.ContextID,
	})
}

// UnreadCount counts unread notes. With forAuthorType set, only notes
// authored by that type count: the number the opposite audience has not yet
// read.
func (s *Service) UnreadCount(ctx context.Context, proposalID int64, forAuthorType string) (int, error) {
	if forAuthorType != "" && !domain.ValidAuthorType(forAuthorType) {
		return 0, domain.NewValidation("authorType", "must be client or staff")
	}
	return s.repo.CountUnread(ctx, proposalID, forAuthorType)
}

// MarkAsRead is called by the viewing audience to clear the counterpart's
// messages: it marks every unread note authored by authorType as read.
func (s *Service) MarkAsRead(ctx context.Context, proposalID int64, authorType string) error {
	if !domain.ValidAuthorType(authorType) {
		return domain.NewValidation("authorType", "must be client or staff")
	}
	if err := s.repo.MarkRead(ctx, proposalID, authorType); err != nil {
		return err
	}
	s.logger.Infow("notes marked read", "proposal_id", proposalID, "author_type", authorType)
	return nil
}

// MarkNoteAsRead flips a single note to read; re-marking is a no-op.
func (s *Service) MarkNoteAsRead(ctx context.Context, noteID int64) error {
	return s.repo.MarkNoteRead(ctx, noteID)
}
