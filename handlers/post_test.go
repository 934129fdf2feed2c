package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"threads/store"
)

func TestAddPostWithMedia(t *testing.T) {
	e := newEnv(t)
	u := e.seedUser(t, "alice", "a@x.com", "pw1")

	w := e.doForm(t, http.MethodPost, "/api/posts",
		map[string]string{"text": "hello"}, "media", []byte("fake-image"),
		sessionCookie(t, u.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, e.media.uploads)

	body := decodeBody(t, w)
	newPost, ok := body["newPost"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "hello", newPost["text"])
	require.NotEmpty(t, newPost["media"])

	// the post id landed in the owner's threads
	got, err := e.store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got.Threads, 1)
}

func TestAddPostUploadFailureLeavesNoState(t *testing.T) {
	e := newEnv(t)
	u := e.seedUser(t, "alice", "a@x.com", "pw1")
	e.media.uploadErr = errors.New("cloud down")

	w := e.doForm(t, http.MethodPost, "/api/posts",
		map[string]string{"text": "hello"}, "media", []byte("fake-image"),
		sessionCookie(t, u.ID))
	require.Equal(t, http.StatusBadGateway, w.Code)

	got, err := e.store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Empty(t, got.Threads)
}

func TestLikeToggleRoundTrip(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	p := e.seedPost(t, a, "thread")
	ctx := context.Background()

	// B likes P
	w := e.do(t, http.MethodPut, "/api/posts/like/"+p.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Post liked !", decodeBody(t, w)["msg"])

	got, err := e.store.PostByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	require.Equal(t, b.ID, got.Likes[0])

	// B likes P again: back to the original state
	w = e.do(t, http.MethodPut, "/api/posts/like/"+p.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Post unliked !", decodeBody(t, w)["msg"])

	got, err = e.store.PostByID(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, got.Likes)
}

func TestFollowToggleRoundTrip(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	ctx := context.Background()

	w := e.do(t, http.MethodPut, "/api/users/follow/"+a.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Following alice", decodeBody(t, w)["msg"])

	got, err := e.store.UserByID(ctx, a.ID)
	require.NoError(t, err)
	require.Contains(t, got.Followers, b.ID)

	w = e.do(t, http.MethodPut, "/api/users/follow/"+a.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Unfollowed alice", decodeBody(t, w)["msg"])

	got, err = e.store.UserByID(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, got.Followers)
}

func TestSelfFollowPassesThrough(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")

	w := e.do(t, http.MethodPut, "/api/users/follow/"+a.ID.Hex(), nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := e.store.UserByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Contains(t, got.Followers, a.ID)
}

func TestRepostOnceThenConflict(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	p := e.seedPost(t, a, "thread")

	w := e.do(t, http.MethodPut, "/api/posts/repost/"+p.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPut, "/api/posts/repost/"+p.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "This post is already reposted !", decodeBody(t, w)["msg"])

	got, err := e.store.UserByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, got.Reposts, 1)
}

func TestRepostOwnPostAllowed(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	p := e.seedPost(t, a, "thread")

	w := e.do(t, http.MethodPut, "/api/posts/repost/"+p.ID.Hex(), nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAllPostsPagination(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")

	// seed seven posts with distinct creation times
	ctx := context.Background()
	base := time.Now()
	var texts []string
	for i := 0; i < 7; i++ {
		p := e.seedPost(t, a, fmt.Sprintf("post %d", i))
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, e.store.DeletePost(ctx, p.ID))
		require.NoError(t, e.store.InsertPost(ctx, p))
		texts = append(texts, p.Text)
	}

	pageTexts := func(wantCode int, path string) []string {
		res := e.do(t, http.MethodGet, path, nil, sessionCookie(t, a.ID))
		require.Equal(t, wantCode, res.Code)
		body := decodeBody(t, res)
		posts, ok := body["posts"].([]any)
		require.True(t, ok)
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.(map[string]any)["text"].(string))
		}
		return out
	}

	require.Equal(t, []string{texts[6], texts[5], texts[4]}, pageTexts(200, "/api/posts?page=1"))
	require.Equal(t, []string{texts[3], texts[2], texts[1]}, pageTexts(200, "/api/posts?page=2"))
	// missing and zero pages behave like page 1
	require.Equal(t, pageTexts(200, "/api/posts?page=1"), pageTexts(200, "/api/posts"))
	require.Equal(t, pageTexts(200, "/api/posts?page=1"), pageTexts(200, "/api/posts?page=0"))
}

func TestDeletePostOwnershipGuard(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	p := e.seedPost(t, a, "thread")
	cm := e.seedComment(t, b, p, "nice")

	w := e.do(t, http.MethodDelete, "/api/posts/"+p.ID.Hex(), nil, sessionCookie(t, b.ID))
	require.Equal(t, http.StatusForbidden, w.Code)

	// everything untouched
	ctx := context.Background()
	_, err := e.store.PostByID(ctx, p.ID)
	require.NoError(t, err)
	_, err = e.store.CommentByID(ctx, cm.ID)
	require.NoError(t, err)
}

func TestDeletePostCascade(t *testing.T) {
	e := newEnv(t)
	a := e.seedUser(t, "alice", "a@x.com", "pw1")
	b := e.seedUser(t, "bob", "b@x.com", "pw2")
	p := e.seedPost(t, a, "thread")
	ctx := context.Background()

	// give the post a media asset so the destroy step runs
	p.Media = "https://cdn.example/threads/posts/img.png"
	p.PublicID = "threads/posts/asset"
	require.NoError(t, e.store.DeletePost(ctx, p.ID))
	require.NoError(t, e.store.InsertPost(ctx, p))

	cm := e.seedComment(t, b, p, "nice")
	require.NoError(t, e.store.AppendRepost(ctx, b.ID, p.ID))

	w := e.do(t, http.MethodDelete, "/api/posts/"+p.ID.Hex(), nil, sessionCookie(t, a.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Post deleted !", decodeBody(t, w)["msg"])

	// post and its comments are gone
	_, err := e.store.PostByID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = e.store.CommentByID(ctx, cm.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// no user still references the post
	gotA, err := e.store.UserByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotContains(t, gotA.Threads, p.ID)
	gotB, err := e.store.UserByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotContains(t, gotB.Reposts, p.ID)

	// the media asset was destroyed
	require.Contains(t, e.media.destroyed, "threads/posts/asset")
}

func TestProtectedRoutesRejectMissingSession(t *testing.T) {
	e := newEnv(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPut, "/api/posts/like/" + "000000000000000000000000"},
	} {
		w := e.do(t, route.method, route.path, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}
