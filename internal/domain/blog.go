package domain

import "time"

// BlogPost is an ordinary content entity with a moderation flag.
type BlogPost struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	Status    PostStatus
	Flagged   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogComment may nest exactly one level: a reply's ParentCommentID
// must name a top-level comment on the same post.
type BlogComment struct {
	ID              string
	PostID          string
	ParentCommentID string
	AuthorID        string
	Body            string
	CreatedAt       time.Time
}

// IsReply reports whether the comment is a nested reply.
func (c *BlogComment) IsReply() bool {
	return c.ParentCommentID != ""
}
