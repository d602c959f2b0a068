package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/domain"
)

// LikesRepository maintains the set of users who liked a recipe. Membership
// lives in a table keyed on (recipe_id, user_id), so the no-duplicates
// invariant is enforced by the primary key and toggling never rewrites the
// whole set.
type LikesRepository struct {
	pool *pgxpool.Pool
}

// Toggle flips userID's membership in the recipe's like set and reports the
// resulting state. The flip runs as atomic set operations (a keyed DELETE,
// else an INSERT ON CONFLICT DO NOTHING) inside one transaction, so two
// concurrent toggles cannot corrupt the set.
func (r *LikesRepository) Toggle(ctx context.Context, recipeID, userID string) (domain.LikeState, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("begin like tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, recipeID).Scan(&exists); err != nil {
		return domain.LikeState{}, fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return domain.LikeState{}, ErrNotFound
	}

	tag, err := tx.Exec(ctx, `DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2`, recipeID, userID)
	if err != nil {
		return domain.LikeState{}, fmt.Errorf("remove like: %w", err)
	}

	liked := false
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_likes (recipe_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			recipeID, userID); err != nil {
			return domain.LikeState{}, fmt.Errorf("add like: %w", err)
		}
		liked = true
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM recipe_likes WHERE recipe_id = $1`, recipeID).Scan(&count); err != nil {
		return domain.LikeState{}, fmt.Errorf("count likes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LikeState{}, fmt.Errorf("commit like tx: %w", err)
	}

	return domain.LikeState{LikesCount: count, IsLiked: liked}, nil
}

// IsLiked reports whether userID currently likes the recipe.
func (r *LikesRepository) IsLiked(ctx context.Context, recipeID, userID string) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2)`,
		recipeID, userID).Scan(&liked)
	if err != nil {
		return false, err
	}
	return liked, nil
}
