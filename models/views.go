package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// View types carry documents with their id references resolved into full
// records for read responses. Passwords stay hidden through User's own
// JSON tags.

type CommentView struct {
	ID        primitive.ObjectID `json:"_id"`
	Text      string             `json:"text"`
	Admin     *User              `json:"admin,omitempty"`
	Post      primitive.ObjectID `json:"post"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type PostView struct {
	ID        primitive.ObjectID `json:"_id"`
	Text      string             `json:"text,omitempty"`
	Media     string             `json:"media,omitempty"`
	PublicID  string             `json:"public_id,omitempty"`
	Admin     *User              `json:"admin,omitempty"`
	Likes     []User             `json:"likes"`
	Comments  []CommentView      `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type UserView struct {
	ID         primitive.ObjectID `json:"_id"`
	UserName   string             `json:"userName"`
	Email      string             `json:"email"`
	Bio        string             `json:"bio,omitempty"`
	ProfilePic string             `json:"profilePic"`
	PublicID   string             `json:"public_id,omitempty"`
	Followers  []User             `json:"followers"`
	Threads    []PostView         `json:"threads"`
	Replies    []CommentView      `json:"replies"`
	Reposts    []PostView         `json:"reposts"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
