package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherhub/gatherhub/internal/domain/user"
	"github.com/gatherhub/gatherhub/internal/http/handlers"
)

type fakeUsersRepo struct {
	createFn func(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	getFn    func(ctx context.Context, id string) (user.User, error)
	listFn   func(ctx context.Context) ([]user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	return f.createFn(ctx, req)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return f.getFn(ctx, id)
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]user.User, error) {
	return f.listFn(ctx)
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createFn       func(ctx context.Context, req user.CreateUserRequest) (user.User, error)
		wantStatusCode int
	}{
		{
			name: "created",
			body: `{"userId": "test-user-1", "name": "Ada"}`,
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
				return user.NewFromCreateRequest(req), nil
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "missing_name",
			body: `{"userId": "test-user-1"}`,
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
				t.Fatal("repo called for invalid payload")
				return user.User{}, nil
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_id",
			body: `{"userId": "test-user-1", "name": "Ada"}`,
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
				return user.User{}, user.ErrAlreadyExists
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "repo_error",
			body: `{"userId": "test-user-1", "name": "Ada"}`,
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
				return user.User{}, errors.New("db down")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{createFn: tt.createFn}

			h := handlers.NewUsersHandler(repo)
			r := setupRouter(http.MethodPost, "/users", h.CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestGetUserByIDHandler(t *testing.T) {
	repo := &fakeUsersRepo{
		getFn: func(ctx context.Context, id string) (user.User, error) {
			if id == "u-1" {
				return user.User{UserID: "u-1", Name: "Ada"}, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewUsersHandler(repo)
	r := setupRouter(http.MethodGet, "/users/:id", h.GetUserByID)

	req := httptest.NewRequest(http.MethodGet, "/users/u-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d for missing user, want 404", w.Code)
	}
}

func TestListUsersHandler(t *testing.T) {
	repo := &fakeUsersRepo{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{{UserID: "u-1", Name: "Ada"}, {UserID: "u-2", Name: "Grace"}}, nil
		},
	}

	h := handlers.NewUsersHandler(repo)
	r := setupRouter(http.MethodGet, "/users", h.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var got struct {
		Count int         `json:"count"`
		Users []user.User `json:"users"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response json: %v", err)
	}

	if got.Count != 2 || len(got.Users) != 2 {
		t.Fatalf("count = %d with %d users, want 2", got.Count, len(got.Users))
	}
}
