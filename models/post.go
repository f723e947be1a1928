package models

import (
	"errors"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxContentLength = 500

var (
	ErrContentRequired = errors.New("Content is required.")
	ErrContentTooLong  = errors.New("Max 500 characters.")
)

// Comment is embedded in its post document. Append-only; there is no
// edit or delete path.
type Comment struct {
	ID        string             `bson:"id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Text      string             `bson:"text" json:"text"`
	Timestamp int64              `bson:"timestamp" json:"timestamp"`
}

type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	PhotoURL    string             `bson:"photoURL" json:"photoURL"`
	Content     string             `bson:"content" json:"content"`
	ImageURL    *string            `bson:"imageUrl" json:"imageUrl"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	Likes       []string           `bson:"likes" json:"likes"`
	Comments    []Comment          `bson:"comments" json:"comments"`
}

// ValidateContent enforces the 1-500 character rule shared by post
// creation and post editing.
func ValidateContent(content string) error {
	if content == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// IsAuthor reports whether userID may edit or delete the post.
func (p *Post) IsAuthor(userID primitive.ObjectID) bool {
	return p.UserID == userID
}

// Normalize defaults absent likes and comments to empty so documents
// written by older revisions render uniformly.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// LikedBy reports membership of userID in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike returns the like set with userID removed when present and
// added when absent, plus whether the user likes the post afterwards.
// Set semantics: applying it twice restores the original membership.
func ToggleLike(likes []string, userID string) ([]string, bool) {
	for i, id := range likes {
		if id == userID {
			return append(likes[:i:i], likes[i+1:]...), false
		}
	}
	return append(likes, userID), true
}

// NewComment builds an embedded comment with a time-based id, matching
// the ids clients have always generated for comments.
func NewComment(userID primitive.ObjectID, username, text string) Comment {
	now := time.Now()
	return Comment{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: now.Unix(),
	}
}

// SortPostsByTimestamp orders newest first. Posts without a timestamp
// sort as oldest.
func SortPostsByTimestamp(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
}
