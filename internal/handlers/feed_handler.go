package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/threadwave/backend/internal/models"
	"github.com/threadwave/backend/internal/repositories"
	"gorm.io/gorm"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns posts authored by the users the caller follows, newest
// first. Following nobody yields an empty list, not an error.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		c.Logger().Errorf("getFeedPosts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	following, err := h.followRepository.GetFollowingIDs(user.ID)
	if err != nil {
		c.Logger().Errorf("getFeedPosts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts := []models.Post{}
	if len(following) > 0 {
		skip, limit := paginationParams(c)
		posts, err = h.postRepository.GetPostsByAuthors(c.Request().Context(), following, skip, limit)
		if err != nil {
			c.Logger().Errorf("getFeedPosts: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, posts)
}
