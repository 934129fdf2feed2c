package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfilePic is the placeholder every new account starts with.
const DefaultProfilePic = "https://www.pngall.com/wp-content/uploads/5/User-Profile-PNG-Clipart.png"

// User is the account document. Followers holds user ids, Threads and
// Reposts hold post ids, Replies holds comment ids. Password never
// serializes to JSON.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserName   string               `bson:"userName" json:"userName"`
	Email      string               `bson:"email" json:"email"`
	Password   string               `bson:"password" json:"-"`
	Bio        string               `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePic string               `bson:"profilePic" json:"profilePic"`
	PublicID   string               `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Followers  []primitive.ObjectID `bson:"followers" json:"followers"`
	Threads    []primitive.ObjectID `bson:"threads" json:"threads"`
	Replies    []primitive.ObjectID `bson:"replies" json:"replies"`
	Reposts    []primitive.ObjectID `bson:"reposts" json:"reposts"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasFollower reports whether id is in the followers set.
func (u *User) HasFollower(id primitive.ObjectID) bool {
	return containsID(u.Followers, id)
}

// HasRepost reports whether the user already reposted the given post.
func (u *User) HasRepost(postID primitive.ObjectID) bool {
	return containsID(u.Reposts, postID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
