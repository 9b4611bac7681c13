package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"burgerreview/internal/app"
	"burgerreview/internal/model"
	"burgerreview/internal/transport/http/middleware"
	"burgerreview/internal/transport/http/response"
)

type ReviewHandler struct {
	reviewService *app.ReviewService
}

// CreateReviewRequest may repeat the caller's user_id; it is never used to
// pick the author.
type CreateReviewRequest struct {
	UserID   uint    `json:"user_id"`
	BurgerID uint    `json:"burger_id" binding:"required,gt=0"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment"`
	PhotoURL *string `json:"photo_url"`
}

func NewReviewHandler(reviewService *app.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.TokenUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if req.UserID != 0 && req.UserID != userID {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "cannot review on behalf of another user")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), app.CreateReviewInput{
		UserID:   userID,
		BurgerID: req.BurgerID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeServiceError(c, err, "create review failed")
		return
	}
	response.Created(c, reviewPayload(review))
}

func (h *ReviewHandler) ListByBurger(c *gin.Context) {
	burgerID, ok := parseID(c.Param("burger_id"))
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid burger id")
		return
	}

	reviews, err := h.reviewService.ListReviewsForBurger(c.Request.Context(), burgerID)
	if err != nil {
		writeServiceError(c, err, "list reviews failed")
		return
	}
	payload := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		payload = append(payload, reviewPayload(&reviews[i]))
	}
	response.OK(c, payload)
}

// reviewPayload exposes only the author's public fields.
func reviewPayload(review *model.Review) gin.H {
	var author gin.H
	if review.User != nil {
		author = gin.H{"id": review.User.ID, "username": review.User.Username}
	}
	return gin.H{
		"id":         review.ID,
		"user_id":    review.UserID,
		"user":       author,
		"burger_id":  review.BurgerID,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"photo_url":  review.PhotoURL,
		"created_at": review.CreatedAt,
	}
}
