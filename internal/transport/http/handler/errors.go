package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"burgerreview/internal/app"
	"burgerreview/internal/transport/http/response"
)

type apiError struct {
	target error
	status int
	code   int
}

var apiErrors = []apiError{
	{app.ErrInvalidInput, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrUsernameExists, http.StatusConflict, response.CodeUsernameExists},
	{app.ErrEmailExists, http.StatusConflict, response.CodeEmailExists},
	{app.ErrChainExists, http.StatusConflict, response.CodeChainExists},
	{app.ErrInvalidPhotoURL, http.StatusBadRequest, response.CodeInvalidPhotoURL},
	{app.ErrInvalidRating, http.StatusBadRequest, response.CodeInvalidRating},
	{app.ErrInvalidCredential, http.StatusUnauthorized, response.CodeInvalidCredentials},
	{app.ErrUnauthenticated, http.StatusUnauthorized, response.CodeUnauthorized},
	{app.ErrChainNotFound, http.StatusNotFound, response.CodeChainNotFound},
	{app.ErrBurgerNotFound, http.StatusNotFound, response.CodeBurgerNotFound},
	{app.ErrUserNotFound, http.StatusNotFound, response.CodeUserNotFound},
}

// writeServiceError maps a service sentinel to its envelope. Anything else
// is reported as an internal error with the given fallback message so store
// details never reach the client.
func writeServiceError(c *gin.Context, err error, fallback string) {
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			response.Error(c, e.status, e.code, e.target.Error())
			return
		}
	}
	if errors.Is(err, app.ErrPersistence) {
		fallback = app.ErrPersistence.Error()
	}
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
}
