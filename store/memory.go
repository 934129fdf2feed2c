package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/models"
)

// Memory is an in-process Store with the same field-mutation semantics as
// the mongo implementation (set adds never duplicate, pulls remove every
// occurrence). It backs the test suite.
type Memory struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	posts    map[primitive.ObjectID]*models.Post
	comments map[primitive.ObjectID]*models.Comment
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[primitive.ObjectID]*models.User),
		posts:    make(map[primitive.ObjectID]*models.Post),
		comments: make(map[primitive.ObjectID]*models.Comment),
	}
}

func (m *Memory) InsertUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *Memory) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	users := []models.User{}
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.UserName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserName < users[j].UserName })
	return users, nil
}

func (m *Memory) SetUserBio(_ context.Context, id primitive.ObjectID, bio string) error {
	return m.mutateUser(id, func(u *models.User) { u.Bio = bio })
}

func (m *Memory) SetUserProfilePic(_ context.Context, id primitive.ObjectID, url, publicID string) error {
	return m.mutateUser(id, func(u *models.User) {
		u.ProfilePic = url
		u.PublicID = publicID
	})
}

func (m *Memory) AddFollower(_ context.Context, target, follower primitive.ObjectID) error {
	return m.mutateUser(target, func(u *models.User) {
		u.Followers = addToSet(u.Followers, follower)
	})
}

func (m *Memory) RemoveFollower(_ context.Context, target, follower primitive.ObjectID) error {
	return m.mutateUser(target, func(u *models.User) {
		u.Followers = pull(u.Followers, follower)
	})
}

func (m *Memory) AppendThread(_ context.Context, userID, postID primitive.ObjectID) error {
	return m.mutateUser(userID, func(u *models.User) {
		u.Threads = append(u.Threads, postID)
	})
}

func (m *Memory) AppendReply(_ context.Context, userID, commentID primitive.ObjectID) error {
	return m.mutateUser(userID, func(u *models.User) {
		u.Replies = append(u.Replies, commentID)
	})
}

func (m *Memory) AppendRepost(_ context.Context, userID, postID primitive.ObjectID) error {
	return m.mutateUser(userID, func(u *models.User) {
		u.Reposts = append(u.Reposts, postID)
	})
}

func (m *Memory) PullReply(_ context.Context, userID, commentID primitive.ObjectID) error {
	return m.mutateUser(userID, func(u *models.User) {
		u.Replies = pull(u.Replies, commentID)
	})
}

func (m *Memory) PullPostRefs(_ context.Context, postID primitive.ObjectID, commentIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		u.Threads = pull(u.Threads, postID)
		u.Reposts = pull(u.Reposts, postID)
		u.Replies = pull(u.Replies, postID)
		for _, id := range commentIDs {
			u.Replies = pull(u.Replies, id)
		}
	}
	return nil
}

func (m *Memory) mutateUser(id primitive.ObjectID, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) InsertPost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *Memory) PostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) PostsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	posts := []models.Post{}
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (m *Memory) PostsPage(_ context.Context, page int) ([]models.Post, error) {
	if page <= 0 {
		page = 1
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})

	start := (page - 1) * PageSize
	if start >= len(all) {
		return []models.Post{}, nil
	}
	end := start + PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *Memory) AddLike(_ context.Context, postID, userID primitive.ObjectID) error {
	return m.mutatePost(postID, func(p *models.Post) {
		p.Likes = addToSet(p.Likes, userID)
	})
}

func (m *Memory) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) error {
	return m.mutatePost(postID, func(p *models.Post) {
		p.Likes = pull(p.Likes, userID)
	})
}

func (m *Memory) AppendComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	return m.mutatePost(postID, func(p *models.Post) {
		p.Comments = append(p.Comments, commentID)
	})
}

func (m *Memory) PullComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	return m.mutatePost(postID, func(p *models.Post) {
		p.Comments = pull(p.Comments, commentID)
	})
}

func (m *Memory) DeletePost(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) mutatePost(id primitive.ObjectID, fn func(*models.Post)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) InsertComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *Memory) CommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) CommentsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments := []models.Comment{}
	for _, id := range ids {
		if c, ok := m.comments[id]; ok {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (m *Memory) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) DeleteComments(_ context.Context, ids []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.comments, id)
	}
	return nil
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
