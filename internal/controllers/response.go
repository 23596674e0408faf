package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skssmd/patient-project/internal/apperrors"
)

// Series is the body of every JSON response.
type Series struct {
	Success bool `json:"success" example:"true"`
	Result  any  `json:"result"`
}

type Envelope struct {
	Series Series `json:"series"`
}

func respond(c *gin.Context, status int, result any) {
	c.JSON(status, Envelope{Series: Series{Success: status < http.StatusBadRequest, Result: result}})
}

// respondError writes the envelope matching err. notFound is the result body
// used for 404s, since each endpoint reports a missing patient differently.
func respondError(c *gin.Context, err error, notFound gin.H) {
	var (
		validationErr *apperrors.ValidationError
		mismatchErr   *apperrors.TypeMismatchError
		externalErr   *apperrors.ExternalError
	)
	log := zerolog.Ctx(c.Request.Context())

	switch {
	case errors.As(err, &validationErr):
		log.Warn().Interface("errors", validationErr.Fields).Msg("validation failed")
		respond(c, http.StatusBadRequest, gin.H{"errors": validationErr.Fields})
	case errors.As(err, &mismatchErr):
		log.Warn().Str("error", mismatchErr.Message).Msg("bad request body")
		respond(c, http.StatusBadRequest, gin.H{"error": mismatchErr.Message})
	case errors.Is(err, apperrors.ErrNotFound):
		respond(c, http.StatusNotFound, notFound)
	case errors.As(err, &externalErr):
		// Remote failures are passed through untouched.
		contentType := externalErr.ContentType
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
		c.Data(externalErr.StatusCode, contentType, externalErr.Body)
	default:
		log.Error().Err(err).Msg("request failed")
		respond(c, http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseID reads the :id path parameter. ok is false for anything that is
// not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
