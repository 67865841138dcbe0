package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const noteColumns = `id, trip_proposal_id, author_type, author_name, content, context_type, context_id, is_read, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.SugaredLogger) Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.ProposalNote, error) {
	const query = `
INSERT INTO proposal_notes (trip_proposal_id, author_type, author_name, content, context_type, context_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + noteColumns
	n, err := scanNote(r.pool.QueryRow(ctx, query,
		in.TripProposalID,
		in.AuthorType,
		in.AuthorName,
		in.Content,
		in.ContextType,
		in.ContextID,
	))
	if err != nil {
		r.logger.Errorw("note repo: create", "proposal_id", in.TripProposalID, "err", err)
		return nil, err
	}
	return n, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.ProposalNote, error) {
	where := []string{"trip_proposal_id = $1"}
	args := []any{f.TripProposalID}

	if f.GeneralOnly {
		where = append(where, "context_type = '' AND context_id IS NULL")
	} else {
		if f.ContextType != "" {
			args = append(args, f.ContextType)
			where = append(where, fmt.Sprintf("context_type = $%d", len(args)))
		}
		if f.ContextID != nil {
			args = append(args, *f.ContextID)
			where = append(where, fmt.Sprintf("context_id = $%d", len(args)))
		}
	}

	query := `SELECT ` + noteColumns + ` FROM proposal_notes WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Errorw("note repo: list", "proposal_id", f.TripProposalID, "err", err)
		return nil, err
	}
	defer rows.Close()

	notes := []domain.ProposalNote{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (r *postgresRepo) CountUnread(ctx context.Context, proposalID int64, authorType string) (int, error) {
	query := `SELECT COUNT(*) FROM proposal_notes WHERE trip_proposal_id = $1 AND is_read = FALSE`
	args := []any{proposalID}
	if authorType != "" {
		query += ` AND author_type = $2`
		args = append(args, authorType)
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Errorw("note repo: count unread", "proposal_id", proposalID, "err", err)
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) MarkRead(ctx context.Context, proposalID int64, authorType string) error {
	const query = `
UPDATE proposal_notes
SET is_read = TRUE
WHERE trip_proposal_id = $1 AND author_type = $2 AND is_read = FALSE
`
	if _, err := r.pool.Exec(ctx, query, proposalID, authorType); err != nil {
		r.logger.Errorw("note repo: mark read", "proposal_id", proposalID, "author_type", authorType, "err", err)
		return err
	}
	return nil
}

func (r *postgresRepo) MarkNoteRead(ctx context.Context, noteID int64) error {
	var id int64
	err := r.pool.QueryRow(ctx, `UPDATE proposal_notes SET is_read = TRUE WHERE id = $1 RETURNING id`, noteID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("note", noteID)
		}
		r.logger.Errorw("note repo: mark note read", "note_id", noteID, "err", err)
		return err
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.ProposalNote, error) {
	var n domain.ProposalNote
	err := row.Scan(
		&n.ID,
		&n.TripProposalID,
		&n.AuthorType,
		&n.AuthorName,
		&n.Content,
		&n.ContextType,
		&n.ContextID,
		&n.IsRead,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
