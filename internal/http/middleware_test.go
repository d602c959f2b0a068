package httpserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jikoni/jikoni-api/internal/auth"
	"github.com/jikoni/jikoni-api/internal/config"
)

func newBareServer(t *testing.T) *Server {
	t.Helper()
	tokens, err := auth.NewTokenManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	cfg := config.Config{Port: "0", JWTSecret: testJWTSecret, AllowedOrigins: []string{"*"}}
	return New(cfg, nil, nil, tokens, log.New(io.Discard, "", 0))
}

func TestRequireAuth(t *testing.T) {
	srv := newBareServer(t)

	token, err := srv.tokens.Issue("9f0b7c1a-2d34-4e56-8a9b-0c1d2e3f4a5b")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := userIDFrom(r.Context()); got != "9f0b7c1a-2d34-4e56-8a9b-0c1d2e3f4a5b" {
			t.Errorf("userIDFrom = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	protected := srv.requireAuth(next)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestViewerFrom(t *testing.T) {
	srv := newBareServer(t)

	token, err := srv.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if viewer := srv.viewerFrom(req); viewer != nil {
		t.Errorf("anonymous viewer = %v, want nil", *viewer)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	viewer := srv.viewerFrom(req)
	if viewer == nil || *viewer != "user-123" {
		t.Errorf("viewer = %v, want user-123", viewer)
	}

	// A bad token on a public read degrades to anonymous, never an error.
	req.Header.Set("Authorization", "Bearer bogus")
	if viewer := srv.viewerFrom(req); viewer != nil {
		t.Errorf("bogus-token viewer = %v, want nil", *viewer)
	}
}

func TestDecodeErrorResponses(t *testing.T) {
	srv := newBareServer(t)

	token, err := srv.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"score":}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrong field type", `{"score":"five"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"empty body", ``, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown field", `{"stars":5}`, http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost,
				"/api/recipes/9f0b7c1a-2d34-4e56-8a9b-0c1d2e3f4a5b/rate",
				strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response %s: %v", rec.Body.String(), err)
			}
			if resp.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestRecipeRequestValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	valid := recipeRequest{
		Name:     "Nyama Choma",
		Cuisine:  "Kenyan",
		Category: "Dinner",
		ImageURL: "https://example.com/nyama.jpg",
		Ingredients: []ingredientPayload{
			{Name: "Goat meat", Quantity: 1.5, Unit: "kg"},
		},
		Steps: []stepPayload{
			{StepNumber: 1, Instruction: "Grill over charcoal."},
		},
	}

	if err := validate.Struct(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(r *recipeRequest)
	}{
		{"missing name", func(r *recipeRequest) { r.Name = "" }},
		{"unknown cuisine", func(r *recipeRequest) { r.Cuisine = "Martian" }},
		{"unknown category", func(r *recipeRequest) { r.Category = "Midnight" }},
		{"bad image url", func(r *recipeRequest) { r.ImageURL = "not a url" }},
		{"no ingredients", func(r *recipeRequest) { r.Ingredients = nil }},
		{"zero quantity", func(r *recipeRequest) { r.Ingredients[0].Quantity = 0 }},
		{"unknown unit", func(r *recipeRequest) { r.Ingredients[0].Unit = "handful" }},
		{"no steps", func(r *recipeRequest) { r.Steps = nil }},
		{"empty instruction", func(r *recipeRequest) { r.Steps[0].Instruction = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			req.Ingredients = append([]ingredientPayload(nil), valid.Ingredients...)
			req.Steps = append([]stepPayload(nil), valid.Steps...)
			tc.mutate(&req)
			if err := validate.Struct(req); err == nil {
				t.Errorf("expected validation failure")
			}
		})
	}
}

func TestRatingRequestValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	for score := 1; score <= 5; score++ {
		if err := validate.Struct(ratingRequest{Score: score}); err != nil {
			t.Errorf("score %d rejected: %v", score, err)
		}
	}
	for _, score := range []int{0, -1, 6, 100} {
		if err := validate.Struct(ratingRequest{Score: score}); err == nil {
			t.Errorf("score %d accepted", score)
		}
	}
}
