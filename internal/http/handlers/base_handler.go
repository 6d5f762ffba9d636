// README: Base handler utilities (JSON helpers, error mapping) and the liveness routes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freight/internal/pipeline"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeQuoteError maps a pipeline error kind to its status code and writes
// the stage message.
func writeQuoteError(c *gin.Context, err error) {
	msg := "Unexpected server error: " + err.Error()
	var se *pipeline.StageError
	if errors.As(err, &se) {
		msg = se.Msg
	}

	switch pipeline.KindOf(err) {
	case pipeline.ErrMissingParameters,
		pipeline.ErrInvalidNumericParameter,
		pipeline.ErrTransliterationFailure,
		pipeline.ErrUnknownCategory,
		pipeline.ErrGeocodeNotFound:
		writeError(c, http.StatusBadRequest, msg)
	default:
		writeError(c, http.StatusInternalServerError, msg)
	}
}

type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

func (h *BaseHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Server is up and running!")
}

func (h *BaseHandler) Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, map[string]any{"status": "ok"})
}
