package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jikoni/jikoni-api/internal/domain"
)

// RecipesRepository provides persistence helpers for recipe entities.
type RecipesRepository struct {
	pool *pgxpool.Pool
}

// recipeSelect joins the creator and computes the like aggregates relative
// to the viewing user. $1 is always the viewer id (nullable); additional
// placeholders start at $2.
const recipeSelect = `
    SELECT
        r.id,
        r.name,
        r.cuisine,
        r.category,
        r.image_url,
        r.description,
        r.ingredients,
        r.steps,
        r.prep_time,
        r.cook_time,
        r.servings,
        r.tags,
        r.created_by,
        r.average_rating,
        r.rating_count,
        r.created_at,
        r.updated_at,
        u.first_name,
        u.surname,
        u.avatar_url,
        (SELECT count(*) FROM recipe_likes l WHERE l.recipe_id = r.id) AS likes_count,
        ($1::uuid IS NOT NULL AND EXISTS (
            SELECT 1 FROM recipe_likes l WHERE l.recipe_id = r.id AND l.user_id = $1::uuid
        )) AS is_liked
    FROM recipes r
    JOIN users u ON u.id = r.created_by
`

// RecipeParams bundles the caller-supplied fields of a recipe. The same
// shape serves create and full update.
type RecipeParams struct {
	Name        string
	Cuisine     string
	Category    string
	ImageURL    string
	Description *string
	Ingredients []domain.Ingredient
	Steps       []domain.Step
	PrepTime    *int
	CookTime    *int
	Servings    *int
	Tags        []string
}

// Create inserts a new recipe owned by creatorID and returns the stored entity.
func (r *RecipesRepository) Create(ctx context.Context, creatorID string, params RecipeParams) (domain.Recipe, error) {
	ingredientsJSON, stepsJSON, err := marshalRecipeParts(params)
	if err != nil {
		return domain.Recipe{}, err
	}

	const query = `
        INSERT INTO recipes (name, cuisine, category, image_url, description, ingredients, steps, prep_time, cook_time, servings, tags, created_by)
        VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7::jsonb,$8,$9,$10,$11,$12)
        RETURNING id
    `

	var id string
	err = r.pool.QueryRow(ctx, query,
		params.Name,
		params.Cuisine,
		params.Category,
		params.ImageURL,
		params.Description,
		ingredientsJSON,
		stepsJSON,
		params.PrepTime,
		params.CookTime,
		params.Servings,
		tagsOrEmpty(params.Tags),
		creatorID,
	).Scan(&id)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}

	return r.GetByID(ctx, id, &creatorID)
}

// GetByID fetches a recipe by identifier. viewerID determines IsLiked and
// may be nil for anonymous reads.
func (r *RecipesRepository) GetByID(ctx context.Context, id string, viewerID *string) (domain.Recipe, error) {
	query := recipeSelect + ` WHERE r.id = $2`
	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// List returns all recipes newest-first with creator populated.
func (r *RecipesRepository) List(ctx context.Context, viewerID *string) ([]domain.Recipe, error) {
	query := recipeSelect + ` ORDER BY r.created_at DESC, r.id DESC`
	return r.queryRecipes(ctx, query, viewerID)
}

// ListByCreator returns the recipes owned by creatorID, newest-first.
func (r *RecipesRepository) ListByCreator(ctx context.Context, creatorID string, viewerID *string) ([]domain.Recipe, error) {
	query := recipeSelect + ` WHERE r.created_by = $2 ORDER BY r.created_at DESC, r.id DESC`
	return r.queryRecipes(ctx, query, viewerID, creatorID)
}

// Update replaces the caller-supplied fields of a recipe. Only the creator
// may update; other callers get ErrForbidden.
func (r *RecipesRepository) Update(ctx context.Context, id, callerID string, params RecipeParams) (domain.Recipe, error) {
	if err := r.checkOwnership(ctx, id, callerID); err != nil {
		return domain.Recipe{}, err
	}

	ingredientsJSON, stepsJSON, err := marshalRecipeParts(params)
	if err != nil {
		return domain.Recipe{}, err
	}

	const query = `
        UPDATE recipes
        SET name = $2,
            cuisine = $3,
            category = $4,
            image_url = $5,
            description = $6,
            ingredients = $7::jsonb,
            steps = $8::jsonb,
            prep_time = $9,
            cook_time = $10,
            servings = $11,
            tags = $12,
            updated_at = now()
        WHERE id = $1
    `

	if _, err := r.pool.Exec(ctx, query,
		id,
		params.Name,
		params.Cuisine,
		params.Category,
		params.ImageURL,
		params.Description,
		ingredientsJSON,
		stepsJSON,
		params.PrepTime,
		params.CookTime,
		params.Servings,
		tagsOrEmpty(params.Tags),
	); err != nil {
		return domain.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}

	return r.GetByID(ctx, id, &callerID)
}

// Delete removes a recipe; likes, ratings, and comments cascade. Only the
// creator may delete.
func (r *RecipesRepository) Delete(ctx context.Context, id, callerID string) error {
	if err := r.checkOwnership(ctx, id, callerID); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

func (r *RecipesRepository) checkOwnership(ctx context.Context, id, callerID string) error {
	var createdBy string
	err := r.pool.QueryRow(ctx, `SELECT created_by FROM recipes WHERE id = $1`, id).Scan(&createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if createdBy != callerID {
		return ErrForbidden
	}
	return nil
}

func (r *RecipesRepository) queryRecipes(ctx context.Context, query string, viewerID *string, extraArgs ...interface{}) ([]domain.Recipe, error) {
	args := append([]interface{}{viewerID}, extraArgs...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanRecipe(row pgx.Row) (domain.Recipe, error) {
	var (
		recipe          domain.Recipe
		ingredientsJSON []byte
		stepsJSON       []byte
		creator         domain.Creator
	)

	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Cuisine,
		&recipe.Category,
		&recipe.ImageURL,
		&recipe.Description,
		&ingredientsJSON,
		&stepsJSON,
		&recipe.PrepTime,
		&recipe.CookTime,
		&recipe.Servings,
		&recipe.Tags,
		&recipe.CreatedBy,
		&recipe.AverageRating,
		&recipe.RatingCount,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
		&creator.FirstName,
		&creator.Surname,
		&creator.AvatarURL,
		&recipe.LikesCount,
		&recipe.IsLiked,
	)
	if err != nil {
		return domain.Recipe{}, err
	}

	if err := json.Unmarshal(ingredientsJSON, &recipe.Ingredients); err != nil {
		return domain.Recipe{}, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(stepsJSON, &recipe.Steps); err != nil {
		return domain.Recipe{}, fmt.Errorf("decode steps: %w", err)
	}

	creator.ID = recipe.CreatedBy
	recipe.Creator = &creator
	return recipe, nil
}

func marshalRecipeParts(params RecipeParams) ([]byte, []byte, error) {
	ingredientsJSON, err := json.Marshal(params.Ingredients)
	if err != nil {
		return nil, nil, fmt.Errorf("encode ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(params.Steps)
	if err != nil {
		return nil, nil, fmt.Errorf("encode steps: %w", err)
	}
	return ingredientsJSON, stepsJSON, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
