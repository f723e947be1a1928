package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrContentRequired},
		{"single char", "a", nil},
		{"normal", "Hello world", nil},
		{"exactly 500", strings.Repeat("x", 500), nil},
		{"501 chars", strings.Repeat("x", 501), ErrContentTooLong},
		{"multibyte under limit", strings.Repeat("é", 500), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContentMessagesAreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrContentRequired.Error(), ErrContentTooLong.Error())
}

func TestToggleLikeAddsAndRemoves(t *testing.T) {
	likes := []string{}

	likes, liked := ToggleLike(likes, "alice")
	assert.True(t, liked)
	assert.Equal(t, []string{"alice"}, likes)

	likes, liked = ToggleLike(likes, "alice")
	assert.False(t, liked)
	assert.Empty(t, likes)
}

func TestToggleLikeIsIdempotentPerUser(t *testing.T) {
	original := []string{"bob"}

	once, _ := ToggleLike(original, "alice")
	twice, _ := ToggleLike(once, "alice")

	assert.Equal(t, original, twice)
}

func TestToggleLikeTwoUsersOrderIndependent(t *testing.T) {
	a1, _ := ToggleLike([]string{}, "alice")
	a2, _ := ToggleLike(a1, "bob")

	b1, _ := ToggleLike([]string{}, "bob")
	b2, _ := ToggleLike(b1, "alice")

	assert.Len(t, a2, 2)
	assert.Len(t, b2, 2)
	assert.ElementsMatch(t, a2, b2)
}

func TestToggleLikeDoesNotMutateShared(t *testing.T) {
	likes := []string{"alice", "bob", "carol"}

	removed, liked := ToggleLike(likes, "bob")
	assert.False(t, liked)
	assert.Equal(t, []string{"alice", "carol"}, removed)
	// removing from the middle must not clobber the original backing array
	assert.Equal(t, []string{"alice", "bob", "carol"}, likes)
}

func TestLikedBy(t *testing.T) {
	p := Post{Likes: []string{"alice"}}
	assert.True(t, p.LikedBy("alice"))
	assert.False(t, p.LikedBy("bob"))
}

func TestNormalizeDefaultsEmptyCollections(t *testing.T) {
	p := Post{}
	p.Normalize()

	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)
	assert.Empty(t, p.Likes)
	assert.Empty(t, p.Comments)
	assert.Nil(t, p.ImageURL)
}

func TestNewComment(t *testing.T) {
	userID := primitive.NewObjectID()

	c := NewComment(userID, "alice", "nice post")

	require.NotEmpty(t, c.ID)
	assert.Equal(t, userID, c.UserID)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, "nice post", c.Text)
	assert.NotZero(t, c.Timestamp)
}

func TestSortPostsByTimestamp(t *testing.T) {
	posts := []Post{
		{Content: "old", CreatedAt: 100},
		{Content: "untimed"},
		{Content: "new", CreatedAt: 300},
		{Content: "mid", CreatedAt: 200},
	}

	SortPostsByTimestamp(posts)

	assert.Equal(t, "new", posts[0].Content)
	assert.Equal(t, "mid", posts[1].Content)
	assert.Equal(t, "old", posts[2].Content)
	// records lacking a timestamp sort as oldest
	assert.Equal(t, "untimed", posts[3].Content)
}

func TestIsAuthor(t *testing.T) {
	author := primitive.NewObjectID()
	other := primitive.NewObjectID()

	p := Post{UserID: author}

	assert.True(t, p.IsAuthor(author))
	assert.False(t, p.IsAuthor(other))
}
