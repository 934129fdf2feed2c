package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/models"
)

// PageSize is the fixed window for post listing.
const PageSize = 3

var (
	// ErrNotFound means no document matched the given id or email.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence boundary for users, posts and comments. Every
// mutation touches a single document through an atomic field operation
// (set add/remove, list push/pull), so concurrent toggles on the same
// document never overwrite each other.
type Store interface {
	// Users
	InsertUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	SetUserBio(ctx context.Context, id primitive.ObjectID, bio string) error
	SetUserProfilePic(ctx context.Context, id primitive.ObjectID, url, publicID string) error
	AddFollower(ctx context.Context, target, follower primitive.ObjectID) error
	RemoveFollower(ctx context.Context, target, follower primitive.ObjectID) error
	AppendThread(ctx context.Context, userID, postID primitive.ObjectID) error
	AppendReply(ctx context.Context, userID, commentID primitive.ObjectID) error
	AppendRepost(ctx context.Context, userID, postID primitive.ObjectID) error
	PullReply(ctx context.Context, userID, commentID primitive.ObjectID) error
	// PullPostRefs strips postID from every user's threads, reposts and
	// replies lists, and the post's comment ids from every user's
	// replies. Part of the post-delete cascade.
	PullPostRefs(ctx context.Context, postID primitive.ObjectID, commentIDs []primitive.ObjectID) error

	// Posts
	InsertPost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	PostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	// PostsPage returns the page-th window of PageSize posts, newest
	// first. Pages are 1-indexed; page <= 0 behaves like page 1.
	PostsPage(ctx context.Context, page int) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error

	// Comments
	InsertComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	CommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteComments(ctx context.Context, ids []primitive.ObjectID) error
}
