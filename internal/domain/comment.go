package domain

import "time"

// Comment is a user's remark on a recipe. Author is populated from the
// users table on reads.
type Comment struct {
	ID        string
	RecipeID  string
	UserID    string
	Body      string
	Author    *Creator
	CreatedAt time.Time
	UpdatedAt time.Time
}
