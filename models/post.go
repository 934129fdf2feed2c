package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a thread entry. Admin is the owning user. Likes holds user ids,
// Comments holds comment ids. Media and PublicID are set together when an
// image is attached at creation; posts never replace media afterwards.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Text      string               `bson:"text,omitempty" json:"text,omitempty"`
	Media     string               `bson:"media,omitempty" json:"media,omitempty"`
	PublicID  string               `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Admin     primitive.ObjectID   `bson:"admin" json:"admin"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []primitive.ObjectID `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasLike reports whether the user id is in the likes set.
func (p *Post) HasLike(id primitive.ObjectID) bool {
	return containsID(p.Likes, id)
}

// HasComment reports whether the comment id is referenced by this post.
func (p *Post) HasComment(id primitive.ObjectID) bool {
	return containsID(p.Comments, id)
}
