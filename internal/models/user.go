package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a directory entry stored in PostgreSQL.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Password    string    `json:"-"` // Store hashed password, ignore for JSON serialization
	ProfilePic  string    `json:"profile_pic,omitempty"`
	FirebaseUID string    `json:"firebase_uid,omitempty" gorm:"index"` // Link to Firebase User UID, empty for local accounts
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SignupRequest defines the request body for local user registration
type SignupRequest struct {
	Username   string `json:"username" validate:"required,min=2,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	ProfilePic string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

// SignInRequest defines the request body for local user authentication
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a first-party JWT.
// Username is only needed the first time, when the directory entry is created.
type FirebaseLoginRequest struct {
	IDToken  string `json:"id_token" validate:"required"`
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
}

// UpdateUserRequest defines the request body for updating a user profile
type UpdateUserRequest struct {
	Username   string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	ProfilePic string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
