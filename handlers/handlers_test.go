package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"threads/config"
	"threads/handlers"
	"threads/media"
	"threads/middleware"
	"threads/models"
	"threads/routes"
	"threads/store"
)

const testSecret = "test-secret"

// stubUploader stands in for the media host. It records destroys so
// cascade tests can assert the asset cleanup step ran.
type stubUploader struct {
	uploads   int
	destroyed []string
	uploadErr error
}

func (s *stubUploader) Upload(_ context.Context, _ io.Reader, folder string) (*media.Asset, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads++
	return &media.Asset{
		URL:      "https://cdn.example/" + folder + "/img.png",
		PublicID: folder + "/asset",
	}, nil
}

func (s *stubUploader) Destroy(_ context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

type env struct {
	router *gin.Engine
	store  *store.Memory
	media  *stubUploader
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret: testSecret,
		ClientURL: "http://localhost:5173",
		Env:       "development",
	}
	st := store.NewMemory()
	up := &stubUploader{}
	h := handlers.New(st, up, cfg)
	return &env{router: routes.Setup(cfg, st, h), store: st, media: up}
}

func (e *env) seedUser(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)
	now := time.Now()
	u := &models.User{
		ID:         primitive.NewObjectID(),
		UserName:   name,
		Email:      email,
		Password:   string(hash),
		ProfilePic: models.DefaultProfilePic,
		Followers:  []primitive.ObjectID{},
		Threads:    []primitive.ObjectID{},
		Replies:    []primitive.ObjectID{},
		Reposts:    []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.store.InsertUser(context.Background(), u))
	return u
}

func (e *env) seedPost(t *testing.T, admin *models.User, text string) *models.Post {
	t.Helper()
	now := time.Now()
	p := &models.Post{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Admin:     admin.ID,
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.InsertPost(context.Background(), p))
	require.NoError(t, e.store.AppendThread(context.Background(), admin.ID, p.ID))
	return p
}

func (e *env) seedComment(t *testing.T, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	cm := &models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Admin:     author.ID,
		Post:      post.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.InsertComment(ctx, cm))
	require.NoError(t, e.store.AppendComment(ctx, post.ID, cm.ID))
	require.NoError(t, e.store.AppendReply(ctx, author.ID, cm.ID))
	return cm
}

func sessionCookie(t *testing.T, userID primitive.ObjectID) *http.Cookie {
	t.Helper()
	token, err := middleware.SignSession(testSecret, userID)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: token}
}

func (e *env) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) doForm(t *testing.T, method, path string, fields map[string]string, fileField string, fileContent []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "img.png")
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
