package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Post struct {
	bun.BaseModel `bun:"table:posts"`

	ID       string   `bun:"id,pk" json:"id"`
	Heading  string   `bun:"heading,notnull" json:"heading"`
	Content  string   `bun:"content,notnull" json:"content"`
	Tags     []string `bun:"tags,type:jsonb" json:"tags"`
	AuthorID string   `bun:"author_id,notnull" json:"author_id"`

	// User IDs that have liked the post. Membership is toggled.
	Likes []string `bun:"likes,type:jsonb" json:"likes"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type PostRequest struct {
	Heading string   `json:"heading"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
