package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/domain"
)

// RatingsRepository maintains per-user scores and the derived running
// average stored on the recipe row.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// RatingSubmitParams captures the payload required to submit a rating.
type RatingSubmitParams struct {
	RecipeID string
	UserID   string
	Score    int
}

// Submit records or overwrites the caller's score for a recipe and
// recomputes the recipe's average_rating and rating_count inside a single
// transaction. The running total is reconstructed as averageRating *
// ratingCount rather than persisted separately, so repeated edits of the
// same recipe accrue floating-point drift in the 1-decimal average.
//
// Concurrent submissions for the same recipe serialize on the recipe row's
// write lock; last-committed-wins, no retry is attempted.
func (r *RatingsRepository) Submit(ctx context.Context, params RatingSubmitParams) (domain.RatingSummary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("begin rating tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		average float32
		count   int64
	)
	err = tx.QueryRow(ctx, `SELECT average_rating, rating_count FROM recipes WHERE id = $1`, params.RecipeID).
		Scan(&average, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RatingSummary{}, ErrNotFound
		}
		return domain.RatingSummary{}, fmt.Errorf("load recipe aggregates: %w", err)
	}

	var oldScore int
	existing := true
	err = tx.QueryRow(ctx, `SELECT score FROM recipe_ratings WHERE recipe_id = $1 AND user_id = $2`,
		params.RecipeID, params.UserID).Scan(&oldScore)
	if errors.Is(err, pgx.ErrNoRows) {
		existing = false
	} else if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("load existing rating: %w", err)
	}

	priorTotal := float64(average) * float64(count)
	newCount := count
	var newTotal float64

	if existing {
		newTotal = priorTotal - float64(oldScore) + float64(params.Score)
		if _, err := tx.Exec(ctx,
			`UPDATE recipe_ratings SET score = $3, updated_at = now() WHERE recipe_id = $1 AND user_id = $2`,
			params.RecipeID, params.UserID, params.Score); err != nil {
			return domain.RatingSummary{}, fmt.Errorf("update rating: %w", err)
		}
	} else {
		newTotal = priorTotal + float64(params.Score)
		newCount++
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_ratings (recipe_id, user_id, score) VALUES ($1,$2,$3)`,
			params.RecipeID, params.UserID, params.Score); err != nil {
			return domain.RatingSummary{}, fmt.Errorf("insert rating: %w", err)
		}
	}

	newAverage := roundToOneDecimal(newTotal / float64(newCount))

	if _, err := tx.Exec(ctx,
		`UPDATE recipes SET average_rating = $2, rating_count = $3, updated_at = now() WHERE id = $1`,
		params.RecipeID, newAverage, newCount); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("update recipe aggregates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RatingSummary{}, fmt.Errorf("commit rating tx: %w", err)
	}

	return domain.RatingSummary{AverageRating: newAverage, RatingCount: newCount}, nil
}

// Get retrieves the caller's score for a recipe.
func (r *RatingsRepository) Get(ctx context.Context, recipeID, userID string) (int, error) {
	var score int
	err := r.pool.QueryRow(ctx, `SELECT score FROM recipe_ratings WHERE recipe_id = $1 AND user_id = $2`,
		recipeID, userID).Scan(&score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return score, nil
}

func roundToOneDecimal(value float64) float32 {
	return float32(math.Round(value*10) / 10.0)
}
