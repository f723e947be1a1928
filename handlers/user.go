package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ripple/database"
	"ripple/imagehost"
	"ripple/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetMyProfile(c *gin.Context) {
	userIDStr := c.GetString("userId")
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		log.Printf("GetMyProfile error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile writes the trimmed profile fields, then re-reads the
// document and returns it so callers always render the stored state.
func UpdateMyProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update.Trim()
	if err := update.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"username":   update.DisplayName,
		"bio":        update.Bio,
		"phone":      update.Phone,
		"location":   update.Location,
		"occupation": update.Occupation,
		"company":    update.Company,
		"website":    update.Website,
		"social":     update.Social,
	}})
	if err != nil {
		log.Printf("UpdateMyProfile error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile. Please try again."})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}

// setAvatar persists the user's new avatar URL and fans it out to the
// denormalized copy on every post they authored. Fan-out failures are
// not rolled back; the count of updated posts is reported.
func setAvatar(c *gin.Context, photoURL string) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"photoURL": photoURL},
	})
	if err != nil {
		log.Printf("setAvatar error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile image"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updated, err := fanOutAvatar(ctx, mongoPostStore{}, userID, photoURL)
	if err != nil {
		log.Printf("Avatar fan-out incomplete for user %s: %v", userID.Hex(), err)
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	notifyFeedChanged()

	message := "Profile image updated successfully!"
	if photoURL == "" {
		message = "Profile picture removed successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"user":         user,
		"postsUpdated": updated,
	})
}

func UpdateAvatar(c *gin.Context) {
	avatar, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No avatar file provided"})
		return
	}

	if err := imagehost.ValidateImage(avatar); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := avatar.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar file"})
		return
	}
	defer file.Close()

	uploader, err := imagehost.NewUploader(cloudinaryURL)
	if err != nil {
		log.Printf("Image host configuration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image host configuration error"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url, err := uploader.Upload(ctx, file, "ripple/avatars", c.GetString("userId"))
	if err != nil {
		log.Printf("Avatar upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile image"})
		return
	}

	setAvatar(c, url)
}

// RemoveAvatar clears the avatar; the confirm/cancel step lives in the
// client, the server treats it as a plain update.
func RemoveAvatar(c *gin.Context) {
	setAvatar(c, "")
}
