package user

import (
	"errors"
	"time"
)

type User struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("user not found")

// a user id can only be claimed once
var ErrAlreadyExists = errors.New("user already exists")

type CreateUserRequest struct {
	UserID string `json:"userId" binding:"required,min=1,max=200"`
	Name   string `json:"name" binding:"required,min=1,max=200"`
}

// A factory to build a User from the incoming DTO

func NewFromCreateRequest(req CreateUserRequest) User {
	return User{
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
}
