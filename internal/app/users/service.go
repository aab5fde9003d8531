package users

import (
	"context"
	"errors"

	"soundhaven/internal/auth"
	"soundhaven/internal/store"
)

// ErrInvalidCredentials indicates a login failure.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (store.User, error)
	UserByEmail(ctx context.Context, email string) (store.User, string, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Service exposes account workflows.
type Service interface {
	Signup(ctx context.Context, email, username, password string) (store.User, string, error)
	Login(ctx context.Context, email, password string) (store.User, string, error)
	Get(ctx context.Context, id int64) (store.User, error)
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store and token issuer.
func New(st Store, tokens TokenIssuer) Service {
	return &service{store: st, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, email, username, password string) (store.User, string, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, "", err
	}

	user, err := s.store.CreateUser(ctx, email, username, hash)
	if err != nil {
		return store.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return store.User{}, "", err
	}
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (store.User, string, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, "", err
	}

	user, hash, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			auth.CompareDummy(password)
			return store.User{}, "", ErrInvalidCredentials
		}
		return store.User{}, "", err
	}

	if err := auth.VerifyPassword(password, hash); err != nil {
		return store.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return store.User{}, "", err
	}
	return user, token, nil
}

func (s *service) Get(ctx context.Context, id int64) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, id)
}
