package domain

import "time"

// Note author audiences. A note's unread state is meaningful only to the
// opposite audience from its author.
const (
	AuthorClient = "client"
	AuthorStaff  = "staff"
)

// ValidAuthorType reports whether t is a known note audience.
func ValidAuthorType(t string) bool {
	return t == AuthorClient || t == AuthorStaff
}

// ProposalNote is one message in a two-audience thread on a trip proposal.
// Content is immutable after creation; is_read flips false to true only.
type ProposalNote struct {
	ID             int64     `json:"id"`
	TripProposalID int64     `json:"tripProposalId"`
	AuthorType     string    `json:"authorType"`
	AuthorName     string    `json:"authorName"`
	Content        string    `json:"content"`
	ContextType    string    `json:"contextType,omitempty"`
	ContextID      *int64    `json:"contextId,omitempty"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}
