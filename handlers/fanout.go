package handlers

import (
	"context"
	"sync"

	"ripple/database"
	"ripple/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postAvatarStore is the slice of the post collection the avatar
// fan-out needs; the seam exists so the fan-out can be tested against
// a fixture store.
type postAvatarStore interface {
	PostIDsByAuthor(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	SetPostPhotoURL(ctx context.Context, postID primitive.ObjectID, photoURL string) error
}

type mongoPostStore struct{}

func (mongoPostStore) PostIDsByAuthor(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	projection := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := database.Posts.Find(ctx, bson.M{"userId": userID}, projection)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

func (mongoPostStore) SetPostPhotoURL(ctx context.Context, postID primitive.ObjectID, photoURL string) error {
	_, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$set": bson.M{"photoURL": photoURL},
	})
	return err
}

func (mongoPostStore) FindPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (mongoPostStore) UpdatePost(ctx context.Context, postID primitive.ObjectID, update bson.M) error {
	_, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update)
	return err
}

func (mongoPostStore) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	_, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID})
	return err
}

// fanOutAvatar writes photoURL to the denormalized author avatar of
// every post authored by userID. Each post is updated exactly once;
// updates run concurrently and already-applied ones are not rolled
// back when a later one fails. Returns how many posts were updated
// and the first failure seen.
func fanOutAvatar(ctx context.Context, store postAvatarStore, userID primitive.ObjectID, photoURL string) (int, error) {
	ids, err := store.PostIDsByAuthor(ctx, userID)
	if err != nil {
		return 0, err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	updated := 0
	var firstErr error

	for _, id := range ids {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			if err := store.SetPostPhotoURL(ctx, id, photoURL); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			updated++
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return updated, firstErr
}
