package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/middleware"
	"threads/models"
)

type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment attaches a comment to a post. The comment document is
// written first, then its id is appended to the post's comments and to
// the caller's replies, in that order.
func (h *Handler) AddComment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "id is required !"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "No comment is added !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		failStore(c, "No such post !", err)
		return
	}

	caller := middleware.Caller(c)
	now := time.Now()
	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      req.Text,
		Admin:     caller.ID,
		Post:      post.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.InsertComment(ctx, comment); err != nil {
		failStore(c, "Error in addComment !", err)
		return
	}
	if err := h.store.AppendComment(ctx, post.ID, comment.ID); err != nil {
		failStore(c, "Error in addComment !", err)
		return
	}
	if err := h.store.AppendReply(ctx, caller.ID, comment.ID); err != nil {
		failStore(c, "Error in addComment !", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Commented !"})
}

// DeleteComment removes a comment the caller authored. If the comment id
// is not in the post's comments list the request is an informational
// no-op, not an error, and nothing is mutated.
func (h *Handler) DeleteComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error in deleteComment !"})
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error in deleteComment !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, postID)
	if err != nil {
		failStore(c, "No such post !", err)
		return
	}
	comment, err := h.store.CommentByID(ctx, commentID)
	if err != nil {
		failStore(c, "No such comment !", err)
		return
	}

	if !post.HasComment(comment.ID) {
		c.JSON(http.StatusOK, gin.H{"msg": "This post does not include the comment !"})
		return
	}

	caller := middleware.Caller(c)
	if comment.Admin != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You are not authorized to delete the comment !"})
		return
	}

	if err := h.store.PullComment(ctx, post.ID, comment.ID); err != nil {
		failStore(c, "Error in deleteComment", err)
		return
	}
	if err := h.store.PullReply(ctx, comment.Admin, comment.ID); err != nil {
		failStore(c, "Error in deleteComment", err)
		return
	}
	if err := h.store.DeleteComment(ctx, comment.ID); err != nil {
		failStore(c, "Error in deleteComment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Comment deleted !"})
}
