package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/threadwave/backend/internal/models"
	"github.com/threadwave/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// fakePostRepo is an in-memory PostRepository that preserves the storage
// semantics the handlers rely on: duplicate-free likes, ordered replies and
// newest-first listings.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]uint{}, p.Likes...)
	cp.Replies = append([]models.Reply{}, p.Replies...)
	return &cp
}

// seed inserts a post directly, bypassing the handler, for test setup
func (r *fakePostRepo) seed(postedBy uint, text, img string, createdAt time.Time) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		PostedBy:  postedBy,
		Text:      text,
		Img:       img,
		Likes:     []uint{},
		Replies:   []models.Reply{},
		CreatedAt: createdAt,
	}
	r.posts[post.ID.Hex()] = post
	return clonePost(post)
}

func (r *fakePostRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	r.posts[post.ID.Hex()] = clonePost(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *fakePostRepo) GetPostsByAuthor(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	return r.GetPostsByAuthors(ctx, []uint{userID}, skip, limit)
}

func (r *fakePostRepo) GetPostsByAuthors(_ context.Context, userIDs []uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	authors := map[uint]bool{}
	for _, id := range userIDs {
		authors[id] = true
	}
	matched := []models.Post{}
	for _, post := range r.posts {
		if authors[post.PostedBy] {
			matched = append(matched, *clonePost(post))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if skip >= int64(len(matched)) {
		return []models.Post{}, nil
	}
	matched = matched[skip:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, id string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	for _, likerID := range post.Likes {
		if likerID == userID {
			return nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, id string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	remaining := post.Likes[:0]
	for _, likerID := range post.Likes {
		if likerID != userID {
			remaining = append(remaining, likerID)
		}
	}
	post.Likes = remaining
	return nil
}

func (r *fakePostRepo) AppendReply(_ context.Context, id string, reply models.Reply) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	post.Replies = append(post.Replies, reply)
	return clonePost(post), nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	return r.findUser(func(u *models.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	return r.findUser(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
	return r.findUser(func(u *models.User) bool { return u.FirebaseUID != "" && u.FirebaseUID == uid })
}

func (r *fakeUserRepo) findUser(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if match(user) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// fakeFollowRepo is an in-memory FollowRepository
type fakeFollowRepo struct {
	mu    sync.Mutex
	edges []models.Follow
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, *follow)
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, edge := range r.edges {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, edge := range r.edges {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, edge := range r.edges {
		if edge.FollowerID == userID {
			ids = append(ids, edge.FollowingID)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, edge := range r.edges {
		if edge.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, edge := range r.edges {
		if edge.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

// fakeImageStore records uploads and destroys instead of talking to Cloudinary
type fakeImageStore struct {
	mu         sync.Mutex
	uploadURL  string
	uploadErr  error
	destroyErr error
	uploads    []string
	destroyed  []string
}

func (s *fakeImageStore) Upload(_ context.Context, payload string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, payload)
	return s.uploadURL, nil
}

func (s *fakeImageStore) Destroy(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyErr != nil {
		return s.destroyErr
	}
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

func (s *fakeImageStore) destroyedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.destroyed...)
}
