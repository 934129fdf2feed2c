package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"threads/models"
)

// Mongo implements Store on three collections of a mongo database.
type Mongo struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
}

func (m *Mongo) InsertUser(ctx context.Context, u *models.User) error {
	_, err := m.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := m.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *Mongo) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userName": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"email": bson.M{"$regex": query, "$options": "i"}},
	}}
	cursor, err := m.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *Mongo) SetUserBio(ctx context.Context, id primitive.ObjectID, bio string) error {
	return m.updateUser(ctx, id, bson.M{"$set": bson.M{"bio": bio, "updatedAt": time.Now()}})
}

func (m *Mongo) SetUserProfilePic(ctx context.Context, id primitive.ObjectID, url, publicID string) error {
	return m.updateUser(ctx, id, bson.M{"$set": bson.M{
		"profilePic": url,
		"public_id":  publicID,
		"updatedAt":  time.Now(),
	}})
}

func (m *Mongo) AddFollower(ctx context.Context, target, follower primitive.ObjectID) error {
	return m.updateUser(ctx, target, bson.M{
		"$addToSet": bson.M{"followers": follower},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) RemoveFollower(ctx context.Context, target, follower primitive.ObjectID) error {
	return m.updateUser(ctx, target, bson.M{
		"$pull": bson.M{"followers": follower},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) AppendThread(ctx context.Context, userID, postID primitive.ObjectID) error {
	return m.updateUser(ctx, userID, bson.M{
		"$push": bson.M{"threads": postID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) AppendReply(ctx context.Context, userID, commentID primitive.ObjectID) error {
	return m.updateUser(ctx, userID, bson.M{
		"$push": bson.M{"replies": commentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) AppendRepost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return m.updateUser(ctx, userID, bson.M{
		"$push": bson.M{"reposts": postID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) PullReply(ctx context.Context, userID, commentID primitive.ObjectID) error {
	return m.updateUser(ctx, userID, bson.M{
		"$pull": bson.M{"replies": commentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) PullPostRefs(ctx context.Context, postID primitive.ObjectID, commentIDs []primitive.ObjectID) error {
	replyRefs := append([]primitive.ObjectID{postID}, commentIDs...)
	filter := bson.M{"$or": bson.A{
		bson.M{"threads": postID},
		bson.M{"reposts": postID},
		bson.M{"replies": bson.M{"$in": replyRefs}},
	}}
	update := bson.M{"$pull": bson.M{
		"threads": postID,
		"reposts": postID,
		"replies": bson.M{"$in": replyRefs},
	}}
	_, err := m.users.UpdateMany(ctx, filter, update)
	return err
}

func (m *Mongo) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) InsertPost(ctx context.Context, p *models.Post) error {
	_, err := m.posts.InsertOne(ctx, p)
	return err
}

func (m *Mongo) PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := m.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) PostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	cursor, err := m.posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (m *Mongo) PostsPage(ctx context.Context, page int) ([]models.Post, error) {
	if page <= 0 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * PageSize)).
		SetLimit(PageSize)

	cursor, err := m.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (m *Mongo) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return m.updatePost(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return m.updatePost(ctx, postID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return m.updatePost(ctx, postID, bson.M{
		"$push": bson.M{"comments": commentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return m.updatePost(ctx, postID, bson.M{
		"$pull": bson.M{"comments": commentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) updatePost(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := m.posts.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) InsertComment(ctx context.Context, c *models.Comment) error {
	_, err := m.comments.InsertOne(ctx, c)
	return err
}

func (m *Mongo) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	err := m.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *Mongo) CommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	cursor, err := m.comments.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (m *Mongo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteComments(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := m.comments.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}
