package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ripple/database"
	"ripple/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleLike flips membership of the acting user's id in the post's
// like set. $addToSet/$pull keep this a set, never a counter, so a
// double-click cannot double-add.
func ToggleLike(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to like posts"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	newLikes, liked := models.ToggleLike(post.Likes, userID.Hex())

	var update bson.M
	if liked {
		update = bson.M{"$addToSet": bson.M{"likes": userID.Hex()}}
	} else {
		update = bson.M{"$pull": bson.M{"likes": userID.Hex()}}
	}

	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
		log.Printf("ToggleLike error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	if liked && post.UserID != userID {
		var liker models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&liker); err == nil {
			SendLikePush(post.UserID, liker.Username)
		}
	}

	notifyFeedChanged()

	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
		"likes": len(newLikes),
	})
}
