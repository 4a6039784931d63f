package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadwave/backend/internal/models"
)

func newFeedTestEnv() (*FeedHandler, *fakePostRepo, *fakeUserRepo, *fakeFollowRepo) {
	postRepo := newFakePostRepo()
	userRepo := newFakeUserRepo()
	followRepo := newFakeFollowRepo()
	return NewFeedHandler(postRepo, userRepo, followRepo), postRepo, userRepo, followRepo
}

func TestGetFeedUnknownUser(t *testing.T) {
	h, _, _, _ := newFeedTestEnv()

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/feed", nil)
	c.Set("user", &models.JwtCustomClaims{UserID: 99, Username: "ghost"})

	err := h.GetFeed(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetFeedFollowingNobody(t *testing.T) {
	h, postRepo, userRepo, _ := newFeedTestEnv()
	alice, bob, _ := seedUsers(userRepo)
	postRepo.seed(bob.ID, "not followed", "", time.Now())

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/feed", nil)
	asPrincipal(c, alice)

	require.NoError(t, h.GetFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.NotNil(t, posts, "empty feed must serialize as a list, not null")
	assert.Empty(t, posts)
}

func TestGetFeedSortedNewestFirst(t *testing.T) {
	h, postRepo, userRepo, followRepo := newFeedTestEnv()
	alice, bob, carol := seedUsers(userRepo)
	require.NoError(t, followRepo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, followRepo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}))

	base := time.Now()
	postRepo.seed(bob.ID, "second", "", base.Add(-time.Minute))
	postRepo.seed(carol.ID, "third", "", base.Add(-2*time.Minute))
	postRepo.seed(bob.ID, "first", "", base)
	postRepo.seed(alice.ID, "own post, not followed", "", base)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/feed", nil)
	asPrincipal(c, alice)

	require.NoError(t, h.GetFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "first", posts[0].Text)
	assert.Equal(t, "second", posts[1].Text)
	assert.Equal(t, "third", posts[2].Text)
	for _, p := range posts {
		assert.NotEqual(t, alice.ID, p.PostedBy, "feed only contains followed authors")
	}
}

func TestGetFeedHonorsLimit(t *testing.T) {
	h, postRepo, userRepo, followRepo := newFeedTestEnv()
	alice, bob, _ := seedUsers(userRepo)
	require.NoError(t, followRepo.CreateFollow(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	base := time.Now()
	for i := 0; i < 5; i++ {
		postRepo.seed(bob.ID, "post", "", base.Add(-time.Duration(i)*time.Minute))
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/feed?limit=2", nil)
	asPrincipal(c, alice)

	require.NoError(t, h.GetFeed(c))

	var posts []models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)
}
