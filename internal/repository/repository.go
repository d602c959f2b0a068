package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrForbidden indicates the caller does not own the entity it tried to mutate.
var ErrForbidden = errors.New("repository: forbidden")

// ErrDuplicateEmail indicates a registration against an email already in use.
var ErrDuplicateEmail = errors.New("repository: email already registered")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users    *UsersRepository
	Recipes  *RecipesRepository
	Ratings  *RatingsRepository
	Likes    *LikesRepository
	Comments *CommentsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:    &UsersRepository{pool: pool},
		Recipes:  &RecipesRepository{pool: pool},
		Ratings:  &RatingsRepository{pool: pool},
		Likes:    &LikesRepository{pool: pool},
		Comments: &CommentsRepository{pool: pool},
	}
}
