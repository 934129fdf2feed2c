package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/media"
	"threads/middleware"
	"threads/store"
)

// MyInfo returns the caller's own populated record.
func (h *Handler) MyInfo(c *gin.Context) {
	me, err := h.populateUser(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		failStore(c, "Error in myInfo!", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": me})
}

// UserDetails returns any user by id with followers, threads, replies and
// reposts resolved into full documents.
func (h *Handler) UserDetails(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "id is required!"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.UserByID(ctx, id)
	if err != nil {
		failStore(c, "User doesn't exist!", err)
		return
	}
	view, err := h.populateUser(ctx, user)
	if err != nil {
		failStore(c, "Error in userDetails!", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User details fetched!", "user": view})
}

// FollowUser toggles the caller's membership in the target's followers
// set. Self-follow passes through, matching the source behavior.
func (h *Handler) FollowUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Id is required!"})
		return
	}

	ctx := c.Request.Context()
	target, err := h.store.UserByID(ctx, id)
	if err != nil {
		failStore(c, "User doesn't exist!", err)
		return
	}

	caller := middleware.Caller(c)
	if target.HasFollower(caller.ID) {
		if err := h.store.RemoveFollower(ctx, target.ID, caller.ID); err != nil {
			failStore(c, "Error in followUser!", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Unfollowed " + target.UserName})
		return
	}
	if err := h.store.AddFollower(ctx, target.ID, caller.ID); err != nil {
		failStore(c, "Error in followUser!", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Following " + target.UserName})
}

// UpdateProfile takes a multipart form with optional text (bio) and media
// (new profile picture). A new picture replaces the previous asset: the
// old one is destroyed best-effort before uploading.
func (h *Handler) UpdateProfile(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error in parsing form!", "err": err.Error()})
		return
	}

	ctx := c.Request.Context()
	caller := middleware.Caller(c)

	if text := c.PostForm("text"); text != "" {
		if err := h.store.SetUserBio(ctx, caller.ID, text); err != nil {
			failStore(c, "Error in updateProfile!", err)
			return
		}
	}

	file, _, err := c.Request.FormFile("media")
	if err == nil {
		defer file.Close()

		if caller.PublicID != "" {
			if err := h.media.Destroy(ctx, caller.PublicID); err != nil {
				log.Printf("destroy old profile pic %s: %v", caller.PublicID, err)
			}
		}
		asset, err := h.media.Upload(ctx, file, media.FolderProfiles)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"msg": "Error while uploading picture!"})
			return
		}
		if err := h.store.SetUserProfilePic(ctx, caller.ID, asset.URL, asset.PublicID); err != nil {
			failStore(c, "Error in updateProfile!", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Profile updated successfully!"})
}

// SearchUsers matches the query case-insensitively against userName and
// email.
func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.store.SearchUsers(c.Request.Context(), c.Param("query"))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		failStore(c, "Error in searchUser!", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Searched!", "users": users})
}
