package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/config"
	"threads/media"
	"threads/models"
	"threads/store"
)

// maxUploadSize bounds multipart form parsing.
const maxUploadSize = 10 << 20

// Handler carries the dependencies every request handler needs. Wired at
// startup, no package-level state.
type Handler struct {
	store store.Store
	media media.Uploader
	cfg   *config.Config
}

func New(s store.Store, m media.Uploader, cfg *config.Config) *Handler {
	return &Handler{store: s, media: m, cfg: cfg}
}

// failStore converts a store error into the JSON error boundary: missing
// documents map to 404, anything else is a 500 with the handler's message.
func failStore(c *gin.Context, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"msg": msg, "err": err.Error()})
}

// populateUser resolves a user's reference lists into full documents, one
// level deep, the shape read endpoints return.
func (h *Handler) populateUser(ctx context.Context, u *models.User) (*models.UserView, error) {
	followers, err := h.store.UsersByIDs(ctx, u.Followers)
	if err != nil {
		return nil, err
	}
	threads, err := h.populatePostList(ctx, u.Threads)
	if err != nil {
		return nil, err
	}
	reposts, err := h.populatePostList(ctx, u.Reposts)
	if err != nil {
		return nil, err
	}
	replies, err := h.populateCommentList(ctx, u.Replies)
	if err != nil {
		return nil, err
	}
	return &models.UserView{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
		PublicID:   u.PublicID,
		Followers:  followers,
		Threads:    threads,
		Replies:    replies,
		Reposts:    reposts,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}, nil
}

func (h *Handler) populatePost(ctx context.Context, p *models.Post) (*models.PostView, error) {
	admin, err := h.store.UserByID(ctx, p.Admin)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	likes, err := h.store.UsersByIDs(ctx, p.Likes)
	if err != nil {
		return nil, err
	}
	comments, err := h.populateCommentList(ctx, p.Comments)
	if err != nil {
		return nil, err
	}
	return &models.PostView{
		ID:        p.ID,
		Text:      p.Text,
		Media:     p.Media,
		PublicID:  p.PublicID,
		Admin:     admin,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (h *Handler) populatePostList(ctx context.Context, ids []primitive.ObjectID) ([]models.PostView, error) {
	posts, err := h.store.PostsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		v, err := h.populatePost(ctx, &posts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (h *Handler) populateCommentList(ctx context.Context, ids []primitive.ObjectID) ([]models.CommentView, error) {
	comments, err := h.store.CommentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, cm := range comments {
		admin, err := h.store.UserByID(ctx, cm.Admin)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		views = append(views, models.CommentView{
			ID:        cm.ID,
			Text:      cm.Text,
			Admin:     admin,
			Post:      cm.Post,
			CreatedAt: cm.CreatedAt,
			UpdatedAt: cm.UpdatedAt,
		})
	}
	return views, nil
}
