package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    first_name,
    middle_name,
    surname,
    email,
    password_hash,
    gender,
    phone_number,
    country_code,
    avatar_url,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to register a user.
// PasswordHash must already be a bcrypt hash.
type UserCreateParams struct {
	FirstName    string
	MiddleName   *string
	Surname      string
	Email        string
	PasswordHash string
	Gender       string
	PhoneNumber  string
	CountryCode  string
}

// Create inserts a new user row. A unique-violation on email maps to
// ErrDuplicateEmail.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := `
        INSERT INTO users (first_name, middle_name, surname, email, password_hash, gender, phone_number, country_code)
        VALUES ($1,$2,$3,$4,$5,$6,$7, COALESCE(NULLIF($8, ''), '+254'))
        RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		params.FirstName,
		params.MiddleName,
		params.Surname,
		params.Email,
		params.PasswordHash,
		params.Gender,
		params.PhoneNumber,
		params.CountryCode,
	)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email address.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.MiddleName,
		&user.Surname,
		&user.Email,
		&user.PasswordHash,
		&user.Gender,
		&user.PhoneNumber,
		&user.CountryCode,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
