package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jikoni/jikoni-api/internal/domain"
	"github.com/jikoni/jikoni-api/internal/repository"
)

type ingredientPayload struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required,oneof=tsp tbsp cup ml l g kg piece"`
}

type stepPayload struct {
	StepNumber  int    `json:"stepNumber" validate:"required,min=1"`
	Instruction string `json:"instruction" validate:"required"`
}

type recipeRequest struct {
	Name        string              `json:"name" validate:"required"`
	Cuisine     string              `json:"cuisine" validate:"required,oneof=Kenyan Ethiopian Nigerian Moroccan Indian Chinese Italian French Mexican American Other"`
	Category    string              `json:"category" validate:"required,oneof=Breakfast Lunch Dinner Dessert Snack Drink"`
	ImageURL    string              `json:"imageUrl" validate:"required,url"`
	Description *string             `json:"description" validate:"omitempty,min=10"`
	Ingredients []ingredientPayload `json:"ingredients" validate:"required,min=1,dive"`
	Steps       []stepPayload       `json:"steps" validate:"required,min=1,dive"`
	PrepTime    *int                `json:"prepTime" validate:"omitempty,min=0"`
	CookTime    *int                `json:"cookTime" validate:"omitempty,min=0"`
	Servings    *int                `json:"servings" validate:"omitempty,min=1"`
	Tags        []string            `json:"tags"`
}

type ratingRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

type creatorResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	Surname   string  `json:"surname"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type recipeResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Cuisine       string              `json:"cuisine"`
	Category      string              `json:"category"`
	ImageURL      string              `json:"imageUrl"`
	Description   *string             `json:"description,omitempty"`
	Ingredients   []ingredientPayload `json:"ingredients"`
	Steps         []stepPayload       `json:"steps"`
	PrepTime      *int                `json:"prepTime,omitempty"`
	CookTime      *int                `json:"cookTime,omitempty"`
	Servings      *int                `json:"servings,omitempty"`
	Tags          []string            `json:"tags"`
	CreatedBy     *creatorResponse    `json:"createdBy,omitempty"`
	AverageRating float32             `json:"averageRating"`
	RatingCount   int64               `json:"ratingCount"`
	LikesCount    int64               `json:"likesCount"`
	IsLiked       bool                `json:"isLiked"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type ratingSummaryResponse struct {
	AverageRating float32 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

type likeStateResponse struct {
	LikesCount int64 `json:"likesCount"`
	IsLiked    bool  `json:"isLiked"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.repo.Recipes.List(r.Context(), s.viewerFrom(r))
	if err != nil {
		s.logger.Printf("list recipes error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	recipe, err := s.repo.Recipes.GetByID(r.Context(), id, s.viewerFrom(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
			return
		}
		s.logger.Printf("get recipe error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleListRecipesByUser(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := s.idParam(w, r, "userId")
	if !ok {
		return
	}

	recipes, err := s.repo.Recipes.ListByCreator(r.Context(), creatorID, s.viewerFrom(r))
	if err != nil {
		s.logger.Printf("list recipes by user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list recipes")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	recipe, err := s.repo.Recipes.Create(r.Context(), userIDFrom(r.Context()), toRecipeParams(req))
	if err != nil {
		s.logger.Printf("create recipe error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create recipe")
		return
	}
	s.respondJSON(w, http.StatusCreated, toRecipeResponse(recipe))
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req recipeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	recipe, err := s.repo.Recipes.Update(r.Context(), id, userIDFrom(r.Context()), toRecipeParams(req))
	if err != nil {
		s.respondRecipeMutationError(w, err, "update recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.repo.Recipes.Delete(r.Context(), id, userIDFrom(r.Context())); err != nil {
		s.respondRecipeMutationError(w, err, "delete recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	state, err := s.repo.Likes.Toggle(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
			return
		}
		s.logger.Printf("toggle like error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update likes")
		return
	}
	s.respondJSON(w, http.StatusOK, likeStateResponse{LikesCount: state.LikesCount, IsLiked: state.IsLiked})
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	summary, err := s.repo.Ratings.Submit(r.Context(), repository.RatingSubmitParams{
		RecipeID: id,
		UserID:   userIDFrom(r.Context()),
		Score:    req.Score,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
			return
		}
		s.logger.Printf("submit rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit rating")
		return
	}
	s.respondJSON(w, http.StatusOK, ratingSummaryResponse{
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	})
}

func (s *Server) respondRecipeMutationError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, repository.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "Not authorized to modify this recipe")
	default:
		s.logger.Printf("%s error: %v", op, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process recipe")
	}
}

// idParam extracts and validates a UUID path parameter. A malformed id can
// never reference an existing row, so it maps to 404 rather than 500.
func (s *Server) idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if _, err := uuid.Parse(raw); err != nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return "", false
	}
	return raw, true
}

func toRecipeParams(req recipeRequest) repository.RecipeParams {
	ingredients := make([]domain.Ingredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, domain.Ingredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	steps := make([]domain.Step, 0, len(req.Steps))
	for _, st := range req.Steps {
		steps = append(steps, domain.Step{
			StepNumber:  st.StepNumber,
			Instruction: strings.TrimSpace(st.Instruction),
		})
	}
	return repository.RecipeParams{
		Name:        strings.TrimSpace(req.Name),
		Cuisine:     req.Cuisine,
		Category:    req.Category,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Description: normalizeStringPtr(req.Description),
		Ingredients: ingredients,
		Steps:       steps,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
		Tags:        req.Tags,
	}
}

func toRecipeResponse(recipe domain.Recipe) recipeResponse {
	ingredients := make([]ingredientPayload, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, ingredientPayload{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit})
	}
	steps := make([]stepPayload, 0, len(recipe.Steps))
	for _, st := range recipe.Steps {
		steps = append(steps, stepPayload{StepNumber: st.StepNumber, Instruction: st.Instruction})
	}

	resp := recipeResponse{
		ID:            recipe.ID,
		Name:          recipe.Name,
		Cuisine:       recipe.Cuisine,
		Category:      recipe.Category,
		ImageURL:      recipe.ImageURL,
		Description:   recipe.Description,
		Ingredients:   ingredients,
		Steps:         steps,
		PrepTime:      recipe.PrepTime,
		CookTime:      recipe.CookTime,
		Servings:      recipe.Servings,
		Tags:          recipe.Tags,
		AverageRating: recipe.AverageRating,
		RatingCount:   recipe.RatingCount,
		LikesCount:    recipe.LikesCount,
		IsLiked:       recipe.IsLiked,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
	if recipe.Creator != nil {
		resp.CreatedBy = &creatorResponse{
			ID:        recipe.Creator.ID,
			FirstName: recipe.Creator.FirstName,
			Surname:   recipe.Creator.Surname,
			AvatarURL: recipe.Creator.AvatarURL,
		}
	}
	return resp
}

func toRecipeResponses(recipes []domain.Recipe) []recipeResponse {
	items := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, toRecipeResponse(recipe))
	}
	return items
}
