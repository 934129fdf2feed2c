package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"threads/middleware"
	"threads/models"
	"threads/store"
)

// bcryptCost matches the source system's 10 rounds.
const bcryptCost = 10

type SigninRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin registers a new account and opens a session.
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserName == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "userName, email and password are required!"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.UserByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"msg": "User is already registered! Please login."})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		failStore(c, "Error in signin!", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error in password hashing!"})
		return
	}

	now := time.Now()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   string(hashed),
		ProfilePic: models.DefaultProfilePic,
		Followers:  []primitive.ObjectID{},
		Threads:    []primitive.ObjectID{},
		Replies:    []primitive.ObjectID{},
		Reposts:    []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"msg": "User is already registered! Please login."})
			return
		}
		failStore(c, "Error while saving user!", err)
		return
	}

	if err := h.openSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error while generating token!"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "User signed in successfully! Hello " + user.UserName})
}

// Login authenticates an existing account and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email and Password are required!"})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Please sign in first!"})
		return
	}
	if err != nil {
		failStore(c, "Error in login!", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Incorrect credentials!"})
		return
	}

	if err := h.openSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Token not generated in login!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User logged in successfully!"})
}

// Logout clears the session cookie. Always succeeds.
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"msg": "You logged out!"})
}

func (h *Handler) openSession(c *gin.Context, userID primitive.ObjectID) error {
	token, err := middleware.SignSession(h.cfg.JWTSecret, userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token, int(middleware.SessionTTL.Seconds()))
	return nil
}

// Cookie flags mirror the deployment split: Secure + SameSite=None behind
// HTTPS in production, Lax and non-secure in development.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	if h.cfg.Production() {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", h.cfg.Production(), true)
}
