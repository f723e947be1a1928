package handlers

import (
	"ripple/realtime"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared constants and variables used across the handler files
const fallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

var feedManager *realtime.Manager
var vapidPublicKey string
var vapidPrivateKey string
var cloudinaryURL string

// PushSubscription stores a browser push endpoint per user
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}

// SetFeedManager wires the realtime feed manager into the handlers
func SetFeedManager(manager *realtime.Manager) {
	feedManager = manager
}

// SetCloudinaryURL wires the image host credentials from configuration
func SetCloudinaryURL(url string) {
	cloudinaryURL = url
}

// notifyFeedChanged pushes a fresh post snapshot to every feed
// subscriber after a successful mutation.
func notifyFeedChanged() {
	if feedManager != nil {
		feedManager.NotifyPostsChanged()
	}
}
