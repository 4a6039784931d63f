package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/threadwave/backend/internal/imagestore"
	"github.com/threadwave/backend/internal/models"
	"github.com/threadwave/backend/internal/repositories"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	imageStore     imagestore.ImageStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, images imagestore.ImageStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		imageStore:     images,
	}
}

// RegisterPostRoutes registers post routes that require authentication
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.LikeUnlikePost)
	g.POST("/posts/:id/replies", h.ReplyToPost)
}

// RegisterPublicPostRoutes registers post routes that are readable without authentication
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:username/posts", h.GetUserPosts)
}

// CreatePost creates a new post. The caller may only post as themselves; an
// image payload is exchanged for a hosted URL before anything is persisted.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(req.PostedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		c.Logger().Errorf("createPost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID != user.ID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	img := req.Img
	if img != "" {
		secureURL, err := h.imageStore.Upload(c.Request().Context(), img)
		if err != nil {
			c.Logger().Errorf("createPost: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		img = secureURL
	}

	post := &models.Post{
		PostedBy: req.PostedBy,
		Text:     req.Text,
		Img:      img,
		Likes:    []uint{},
		Replies:  []models.Reply{},
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		c.Logger().Errorf("createPost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Post created", "post": post})
}

// GetPost retrieves a post by ID. Reads are public.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("getPost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller. The hosted image, if any,
// is released best-effort: its deletion is not atomic with the record delete
// and a failure there does not block it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("deletePost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !post.IsOwnedBy(currentUserID) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if post.Img != "" {
		publicID := imagestore.PublicIDFromURL(post.Img)
		logger := c.Logger()
		go func() {
			if err := h.imageStore.Destroy(context.Background(), publicID); err != nil {
				logger.Errorf("deletePost: %v", err)
			}
		}()
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("deletePost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// LikeUnlikePost toggles the caller's membership in the post's likes set.
// The mutation itself is an atomic set add/remove at the storage layer;
// concurrent toggles by the same user may land either way.
func (h *PostHandler) LikeUnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("likeUnlikePost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.HasLikeFrom(currentUserID) {
		if err := h.postRepository.RemoveLike(c.Request().Context(), postID, currentUserID); err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Post not found")
			}
			c.Logger().Errorf("likeUnlikePost: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Post unliked"})
	}

	if err := h.postRepository.AddLike(c.Request().Context(), postID, currentUserID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("likeUnlikePost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post liked"})
}

// ReplyToPost appends a reply carrying a snapshot of the caller's username
// and profile pic, and returns the updated post.
func (h *PostHandler) ReplyToPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	var req models.ReplyToPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		c.Logger().Errorf("replyToPost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	reply := models.Reply{
		UserID:         user.ID,
		Username:       user.Username,
		UserProfilePic: user.ProfilePic,
		Text:           req.Text,
	}

	post, err := h.postRepository.AppendReply(c.Request().Context(), postID, reply)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Errorf("replyToPost: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Reply added", "post": post})
}

// GetUserPosts retrieves a user's posts by their handle, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		c.Logger().Errorf("getUserPosts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	skip, limit := paginationParams(c)
	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		c.Logger().Errorf("getUserPosts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}
