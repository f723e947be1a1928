package handlers

import (
	"context"
	"log"
	"mime/multipart"
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

// postStore is the slice of the post collection the edit and delete
// paths need; like postAvatarStore, the seam lets the author gate be
// exercised against a fixture store.
type postStore interface {
	FindPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	UpdatePost(ctx context.Context, postID primitive.ObjectID, update bson.M) error
	DeletePost(ctx context.Context, postID primitive.ObjectID) error
}

var postDB postStore = mongoPostStore{}

// postInput reads the compose/edit form. JSON bodies carry text-only
// posts; multipart bodies carry text plus an optional image file.
func postInput(c *gin.Context) (content string, image *multipart.FileHeader, ok bool) {
	if c.ContentType() == "application/json" {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return "", nil, false
		}
		return req.Content, nil, true
	}

	if err := c.Request.ParseMultipartForm(imagehost.MaxImageSize); err != nil && err != http.ErrNotMultipart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return "", nil, false
	}

	content = c.PostForm("content")
	if file, err := c.FormFile("image"); err == nil {
		image = file
	}
	return content, image, true
}

func currentUser(ctx context.Context, c *gin.Context) (*models.User, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current user"})
		return nil, false
	}
	return &user, true
}

func uploadPostImage(ctx context.Context, c *gin.Context, image *multipart.FileHeader) (*string, bool) {
	file, err := image.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return nil, false
	}
	defer file.Close()

	uploader, err := imagehost.NewUploader(cloudinaryURL)
	if err != nil {
		log.Printf("Image host configuration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image host configuration error"})
		return nil, false
	}

	url, err := uploader.Upload(ctx, file, "ripple/posts", primitive.NewObjectID().Hex())
	if err != nil {
		log.Printf("Image upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return nil, false
	}
	return &url, true
}

func CreatePost(c *gin.Context) {
	content, image, ok := postInput(c)
	if !ok {
		return
	}

	// Validation happens before any store or upload call
	if err := models.ValidateContent(content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := imagehost.ValidateImage(image); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var imageURL *string
	if image != nil {
		imageURL, ok = uploadPostImage(ctx, c, image)
		if !ok {
			return
		}
	}

	post := models.Post{
		ID:          primitive.NewObjectID(),
		UserID:      user.ID,
		DisplayName: user.Username,
		PhotoURL:    user.PhotoURL,
		Content:     content,
		ImageURL:    imageURL,
		CreatedAt:   time.Now().Unix(),
		Likes:       []string{},
		Comments:    []models.Comment{},
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post."})
		return
	}

	notifyFeedChanged()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully!",
		"postId":  post.ID.Hex(),
	})
}

func UpdatePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	content, image, ok := postInput(c)
	if !ok {
		return
	}

	if err := models.ValidateContent(content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := imagehost.ValidateImage(image); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	post, err := postDB.FindPost(ctx, postID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if !post.IsAuthor(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	// Without a replacement image the existing URL is retained unchanged
	imageURL := post.ImageURL
	if image != nil {
		imageURL, ok = uploadPostImage(ctx, c, image)
		if !ok {
			return
		}
	}

	err = postDB.UpdatePost(ctx, postID, bson.M{"$set": bson.M{
		"content":   content,
		"imageUrl":  imageURL,
		"createdAt": time.Now().Unix(),
	}})
	if err != nil {
		log.Printf("UpdatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post."})
		return
	}

	notifyFeedChanged()

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully!"})
}

func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := postDB.FindPost(ctx, postID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if !post.IsAuthor(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := postDB.DeletePost(ctx, postID); err != nil {
		log.Printf("DeletePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post."})
		return
	}

	notifyFeedChanged()

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully!"})
}

// FetchPosts loads the whole feed, normalized and sorted newest first.
// It doubles as the realtime manager's snapshot source.
func FetchPosts(ctx context.Context) ([]models.Post, error) {
	cursor, err := database.Posts.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Normalize()
	}
	models.SortPostsByTimestamp(posts)

	return posts, nil
}

func GetFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	posts, err := FetchPosts(ctx)
	if err != nil {
		log.Printf("GetFeed error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}
