package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/domain"
)

// CommentsRepository provides persistence helpers for recipe comments.
type CommentsRepository struct {
	pool *pgxpool.Pool
}

const commentSelect = `
    SELECT
        c.id,
        c.recipe_id,
        c.user_id,
        c.body,
        c.created_at,
        c.updated_at,
        u.first_name,
        u.surname,
        u.avatar_url
    FROM comments c
    JOIN users u ON u.id = c.user_id
`

// Create inserts a comment after verifying the recipe exists, both inside
// one transaction so a concurrently deleted recipe cannot acquire a
// dangling comment.
func (r *CommentsRepository) Create(ctx context.Context, recipeID, userID, body string) (domain.Comment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("begin comment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, recipeID).Scan(&exists); err != nil {
		return domain.Comment{}, fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return domain.Comment{}, ErrNotFound
	}

	var id string
	err = tx.QueryRow(ctx,
		`INSERT INTO comments (recipe_id, user_id, body) VALUES ($1,$2,$3) RETURNING id`,
		recipeID, userID, body).Scan(&id)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	comment, err := scanComment(tx.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return domain.Comment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Comment{}, fmt.Errorf("commit comment tx: %w", err)
	}
	return comment, nil
}

// ListByRecipe returns a recipe's comments newest-first with the author populated.
func (r *CommentsRepository) ListByRecipe(ctx context.Context, recipeID string) ([]domain.Comment, error) {
	query := commentSelect + ` WHERE c.recipe_id = $1 ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Edit replaces a comment's body. Only the author may edit; other callers
// get ErrForbidden.
func (r *CommentsRepository) Edit(ctx context.Context, commentID, callerID, body string) (domain.Comment, error) {
	if err := r.checkAuthorship(ctx, commentID, callerID); err != nil {
		return domain.Comment{}, err
	}
	if _, err := r.pool.Exec(ctx,
		`UPDATE comments SET body = $2, updated_at = now() WHERE id = $1`, commentID, body); err != nil {
		return domain.Comment{}, fmt.Errorf("update comment: %w", err)
	}
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, commentID))
}

// Delete removes a comment. Only the author may delete.
func (r *CommentsRepository) Delete(ctx context.Context, commentID, callerID string) error {
	if err := r.checkAuthorship(ctx, commentID, callerID); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *CommentsRepository) checkAuthorship(ctx context.Context, commentID, callerID string) error {
	var userID string
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM comments WHERE id = $1`, commentID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if userID != callerID {
		return ErrForbidden
	}
	return nil
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var (
		comment domain.Comment
		author  domain.Creator
	)
	err := row.Scan(
		&comment.ID,
		&comment.RecipeID,
		&comment.UserID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.FirstName,
		&author.Surname,
		&author.AvatarURL,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	author.ID = comment.UserID
	comment.Author = &author
	return comment, nil
}
