package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const wordsPerMinute = 200

type Post struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	IsPublished  bool      `json:"is_published"`
	ReadTime     int       `json:"read_time"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// Joined fields
	Author *UserSummary `json:"author,omitempty"`
}

// PostDetail is a post with its reactors and comments expanded.
type PostDetail struct {
	Post
	Likes    []UserSummary `json:"likes"`
	Dislikes []UserSummary `json:"dislikes"`
	Comments []Comment     `json:"comments"`
}

func (p *Post) IsAuthor(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	// Joined fields
	Author *UserSummary `json:"author,omitempty"`
}

// CanBeDeletedBy reports whether userID wrote the comment or owns the post it sits on.
func (c *Comment) CanBeDeletedBy(userID uuid.UUID, post *Post) bool {
	return c.AuthorID == userID || post.IsAuthor(userID)
}

// PostFilter narrows a post listing. Nil pointers and empty strings mean "any".
type PostFilter struct {
	Published *bool
	AuthorID  *uuid.UUID
	Tag       string
	Search    string
}

var tagCaser = cases.Lower(language.Und)

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = tagCaser.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func NormalizeTag(tag string) string {
	return tagCaser.String(strings.TrimSpace(tag))
}

// EstimateReadTime returns whole minutes at 200 words per minute, rounding up.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
