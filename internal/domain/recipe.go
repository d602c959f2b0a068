package domain

import "time"

// MealCategories enumerates the taxonomy accepted for Recipe.Category.
var MealCategories = []string{"Breakfast", "Lunch", "Dinner", "Dessert", "Snack", "Drink"}

// Cuisines enumerates the taxonomy accepted for Recipe.Cuisine.
var Cuisines = []string{
	"Kenyan", "Ethiopian", "Nigerian", "Moroccan", "Indian",
	"Chinese", "Italian", "French", "Mexican", "American", "Other",
}

// RecipeUnits enumerates the measurement units accepted for ingredients.
var RecipeUnits = []string{"tsp", "tbsp", "cup", "ml", "l", "g", "kg", "piece"}

// Ingredient is one entry of a recipe's ingredient list, stored as JSONB.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Step is one instruction of a recipe, stored as JSONB.
type Step struct {
	StepNumber  int    `json:"stepNumber"`
	Instruction string `json:"instruction"`
}

// Creator carries the public subset of a user populated onto recipes and comments.
type Creator struct {
	ID        string
	FirstName string
	Surname   string
	AvatarURL *string
}

// Recipe represents the canonical recipe entity in the database/service.
// AverageRating and RatingCount are derived aggregates maintained by the
// rating submission transaction; LikesCount and IsLiked are computed per
// read relative to the viewing user.
type Recipe struct {
	ID            string
	Name          string
	Cuisine       string
	Category      string
	ImageURL      string
	Description   *string
	Ingredients   []Ingredient
	Steps         []Step
	PrepTime      *int
	CookTime      *int
	Servings      *int
	Tags          []string
	CreatedBy     string
	Creator       *Creator
	AverageRating float32
	RatingCount   int64
	LikesCount    int64
	IsLiked       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RatingSummary is the caller-visible result of a rating submission. The
// raw per-user scores are never exposed.
type RatingSummary struct {
	AverageRating float32
	RatingCount   int64
}

// LikeState reports the like set after a toggle, relative to the toggling user.
type LikeState struct {
	LikesCount int64
	IsLiked    bool
}
