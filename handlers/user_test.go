package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserDetailsPopulated(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	p := e.seedPost(t, a, "thread")
	e.seedComment(t, b, p, "nice")
	require.NoError(t, e.store.AddFollower(context.Background(), a.ID, b.ID))
	require.NoError(t, e.store.AppendRepost(context.Background(), b.ID, p.ID))

	w := e.do(t, http.MethodGet, "/api/users/"+a.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)

	followers := user["followers"].([]any)
	require.Len(t, followers, 1)
	require.Equal(t, "bob", followers[0].(map[string]any)["userName"])

	threads := user["threads"].([]any)
	require.Len(t, threads, 1)
	thread := threads[0].(map[string]any)
	require.Equal(t, "thread", thread["text"])
	// the thread's admin and comment authors come back as full users
	require.Equal(t, "alice", thread["admin"].(map[string]any)["userName"])
	comments := thread["comments"].([]any)
	require.Len(t, comments, 1)
	require.Equal(t, "bob", comments[0].(map[string]any)["admin"].(map[string]any)["userName"])

	// reposter's view resolves the same post
	w = e.do(t, http.MethodGet, "/api/users/"+b.ID.Hex(), nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	user = decodeBody(t, w)["user"].(map[string]any)
	reposts := user["reposts"].([]any)
	require.Len(t, reposts, 1)
	require.Equal(t, "thread", reposts[0].(map[string]any)["text"])

	require.NotContains(t, w.Body.String(), a.Password)
}

func TestUserDetailsUnknownID(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")

	w := e.do(t, http.MethodGet, "/api/users/000000000000000000000000", nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/users/not-an-id", nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUsersEndpoint(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "Alice", "alice@x.com", "pw1")
	e.seedUser(t, "bob", "bob@y.com", "pw2")

	w := e.do(t, http.MethodGet, "/api/users/search/ali", nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody(t, w)["users"].([]any)
	require.Len(t, users, 1)
	require.Equal(t, "Alice", users[0].(map[string]any)["userName"])
}

func TestUpdateProfileBioOnly(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")

	w := e.doForm(t, http.MethodPut, "/api/users/update",
		map[string]string{"text": "new bio"}, "", nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := e.store.UserByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "new bio", got.Bio)
	require.Zero(t, e.media.uploads)
}

func TestUpdateProfilePicReplacesOldAsset(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	ctx := context.Background()
	require.NoError(t, e.store.SetUserProfilePic(ctx, a.ID, "https://cdn.example/old.png", "old-asset"))

	w := e.doForm(t, http.MethodPut, "/api/users/update",
		nil, "media", []byte("fake-image"), sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)

	// old asset destroyed before the new one was stored
	require.Equal(t, []string{"old-asset"}, e.media.destroyed)
	got, err := e.store.UserByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "threads/profiles/asset", got.PublicID)
	require.Contains(t, got.ProfilePic, "threads/profiles")
}
