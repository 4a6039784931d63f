package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostedBy  uint               `json:"posted_by" bson:"posted_by"` // Directory ID of the user who created the post
	Text      string             `json:"text" bson:"text"`
	Img       string             `json:"img,omitempty" bson:"img,omitempty"` // Hosted image URL, never the raw payload
	Likes     []uint             `json:"likes" bson:"likes"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Reply is embedded in a post and is not independently addressable. The
// username and profile pic are a snapshot of the replying user at reply time
// and are not refreshed if the user later changes their profile.
type Reply struct {
	UserID         uint   `json:"user_id" bson:"user_id"`
	Username       string `json:"username" bson:"username"`
	UserProfilePic string `json:"user_profile_pic,omitempty" bson:"user_profile_pic,omitempty"`
	Text           string `json:"text" bson:"text"`
}

// IsOwnedBy reports whether the given principal owns the post.
func (p *Post) IsOwnedBy(userID uint) bool {
	return p.PostedBy == userID
}

// HasLikeFrom reports whether the given user is in the post's likes set.
func (p *Post) HasLikeFrom(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post.
// Img carries the raw image payload (e.g. a base64 data URI); it is uploaded
// to the image store and replaced by the returned URL before persistence.
type CreatePostRequest struct {
	PostedBy uint   `json:"posted_by" validate:"required"`
	Text     string `json:"text" validate:"required,max=500"`
	Img      string `json:"img,omitempty"`
}

// ReplyToPostRequest defines the request body for replying to a post
type ReplyToPostRequest struct {
	Text string `json:"text" validate:"required"`
}
