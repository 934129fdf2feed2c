package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/media"
	"threads/middleware"
	"threads/models"
)

// AddPost creates a post from a multipart form with optional text and
// media fields. Media attaches once at creation; a failed upload aborts
// before any document is written.
func (h *Handler) AddPost(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error in form parse !"})
		return
	}

	ctx := c.Request.Context()
	caller := middleware.Caller(c)
	now := time.Now()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		Text:      c.PostForm("text"),
		Admin:     caller.ID,
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	file, _, err := c.Request.FormFile("media")
	if err == nil {
		defer file.Close()
		asset, err := h.media.Upload(ctx, file, media.FolderPosts)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"msg": "Error while uploading Image !"})
			return
		}
		post.Media = asset.URL
		post.PublicID = asset.PublicID
	}

	if err := h.store.InsertPost(ctx, post); err != nil {
		failStore(c, "Error in addPost !", err)
		return
	}
	if err := h.store.AppendThread(ctx, caller.ID, post.ID); err != nil {
		failStore(c, "Error in addPost !", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Post created !", "newPost": post})
}

// AllPosts lists posts newest first in fixed windows of three. The page
// query parameter is 1-indexed; absent or non-positive values mean the
// first page.
func (h *Handler) AllPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	ctx := c.Request.Context()
	posts, err := h.store.PostsPage(ctx, page)
	if err != nil {
		failStore(c, "Error in allPost !", err)
		return
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		v, err := h.populatePost(ctx, &posts[i])
		if err != nil {
			failStore(c, "Error in allPost !", err)
			return
		}
		views = append(views, *v)
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post Fetched !", "posts": views})
}

// SinglePost returns one populated post.
func (h *Handler) SinglePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Id is required !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		failStore(c, "Post not found !", err)
		return
	}
	view, err := h.populatePost(ctx, post)
	if err != nil {
		failStore(c, "Error in singlePost !", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post Fetched !", "post": view})
}

// DeletePost removes a post the caller owns, in a fixed cascade order:
// destroy the media asset, delete its comments, strip the post id from
// every user's lists, then delete the post document. The steps are not
// transactional; the ordering keeps partial failures reproducible.
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Id is required !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		failStore(c, "Post not found !", err)
		return
	}

	caller := middleware.Caller(c)
	if post.Admin != caller.ID {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You are not authorized to delete this post !"})
		return
	}

	if post.Media != "" {
		if err := h.media.Destroy(ctx, post.PublicID); err != nil {
			log.Printf("destroy post media %s: %v", post.PublicID, err)
		}
	}
	if err := h.store.DeleteComments(ctx, post.Comments); err != nil {
		failStore(c, "Error in deletePost !", err)
		return
	}
	if err := h.store.PullPostRefs(ctx, post.ID, post.Comments); err != nil {
		failStore(c, "Error in deletePost !", err)
		return
	}
	if err := h.store.DeletePost(ctx, post.ID); err != nil {
		failStore(c, "Error in deletePost !", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post deleted !"})
}

// LikePost toggles the caller's membership in the post's likes set.
func (h *Handler) LikePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Id is required !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		failStore(c, "No such Post !", err)
		return
	}

	caller := middleware.Caller(c)
	if post.HasLike(caller.ID) {
		if err := h.store.RemoveLike(ctx, post.ID, caller.ID); err != nil {
			failStore(c, "Error in likePost !", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "Post unliked !"})
		return
	}
	if err := h.store.AddLike(ctx, post.ID, caller.ID); err != nil {
		failStore(c, "Error in likePost !", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Post liked !"})
}

// Repost appends the post to the caller's reposts, once. Reposting your
// own post is allowed; reposting twice is a conflict.
func (h *Handler) Repost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Id is needed !"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.PostByID(ctx, id)
	if err != nil {
		failStore(c, "No such post !", err)
		return
	}

	caller := middleware.Caller(c)
	if caller.HasRepost(post.ID) {
		c.JSON(http.StatusConflict, gin.H{"msg": "This post is already reposted !"})
		return
	}
	if err := h.store.AppendRepost(ctx, caller.ID, post.ID); err != nil {
		failStore(c, "Error in repost !", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Reposted !"})
}
