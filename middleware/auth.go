package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threads/models"
	"threads/store"
)

const (
	// CookieName is the session cookie, same name the frontend reads.
	CookieName = "token"
	// SessionTTL bounds both the token expiry and the cookie max-age.
	SessionTTL = 30 * 24 * time.Hour

	userKey = "user"
)

// Claims carries only the user id.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SignSession issues a session token for the given user id.
func SignSession(secret string, userID primitive.ObjectID) (string, error) {
	claims := &Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Auth resolves the caller from the session cookie and loads the full user
// record, so downstream handlers can inspect followers/threads/replies/
// reposts without another fetch. It never mutates state. Verification
// fails closed: any parse or signature error rejects the request.
func Auth(secret string, users store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(CookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token provided!"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token!"})
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token!"})
			return
		}

		user, err := users.UserByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"msg": "User not found!"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Authentication error!", "err": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// Caller returns the user attached by Auth. Handlers behind the middleware
// can rely on it being present.
func Caller(c *gin.Context) *models.User {
	u, _ := c.Get(userKey)
	user, _ := u.(*models.User)
	return user
}
