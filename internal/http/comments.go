package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jikoni/jikoni-api/internal/domain"
	"github.com/jikoni/jikoni-api/internal/repository"
)

type commentCreateRequest struct {
	RecipeID string `json:"recipeId" validate:"required,uuid"`
	Text     string `json:"text" validate:"required,min=1,max=1000"`
}

type commentEditRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

type commentResponse struct {
	ID        string           `json:"id"`
	RecipeID  string           `json:"recipeId"`
	Text      string           `json:"text"`
	Author    *creatorResponse `json:"author,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	comment, err := s.repo.Comments.Create(r.Context(), req.RecipeID, userIDFrom(r.Context()), strings.TrimSpace(req.Text))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
			return
		}
		s.logger.Printf("add comment error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to post comment")
		return
	}
	s.respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := s.idParam(w, r, "recipeId")
	if !ok {
		return
	}

	comments, err := s.repo.Comments.ListByRecipe(r.Context(), recipeID)
	if err != nil {
		s.logger.Printf("list comments error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load comments")
		return
	}

	items := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, toCommentResponse(comment))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := s.idParam(w, r, "commentId")
	if !ok {
		return
	}

	var req commentEditRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	comment, err := s.repo.Comments.Edit(r.Context(), commentID, userIDFrom(r.Context()), strings.TrimSpace(req.Text))
	if err != nil {
		s.respondCommentMutationError(w, err, "edit comment")
		return
	}
	s.respondJSON(w, http.StatusOK, toCommentResponse(comment))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := s.idParam(w, r, "commentId")
	if !ok {
		return
	}

	if err := s.repo.Comments.Delete(r.Context(), commentID, userIDFrom(r.Context())); err != nil {
		s.respondCommentMutationError(w, err, "delete comment")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (s *Server) respondCommentMutationError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Comment not found")
	case errors.Is(err, repository.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "FORBIDDEN", "You can only modify your own comments")
	default:
		s.logger.Printf("%s error: %v", op, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process comment")
	}
}

func toCommentResponse(comment domain.Comment) commentResponse {
	resp := commentResponse{
		ID:        comment.ID,
		RecipeID:  comment.RecipeID,
		Text:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if comment.Author != nil {
		resp.Author = &creatorResponse{
			ID:        comment.Author.ID,
			FirstName: comment.Author.FirstName,
			Surname:   comment.Author.Surname,
			AvatarURL: comment.Author.AvatarURL,
		}
	}
	return resp
}
