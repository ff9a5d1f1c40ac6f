package relay

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takumanken/feed/internal/middleware"
	"github.com/takumanken/feed/internal/utils"
	"github.com/takumanken/feed/pkg/logger"
	"go.uber.org/zap"
)

// Processor turns a prompt into generated text.
type Processor interface {
	Process(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	processor   Processor
	errorStatus int
	logging     bool
}

// NewHandler builds the /process handler. errorStatus is the HTTP status
// written alongside {"error": ...} bodies.
func NewHandler(processor Processor, errorStatus int, logging bool) *Handler {
	return &Handler{
		processor:   processor,
		errorStatus: errorStatus,
		logging:     logging,
	}
}

// Process godoc
// @Summary Relay a prompt to the generation API
// @Accept json
// @Produce json
// @Param request body ProcessRequest true "Prompt"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ValidationErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /process [post]
func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	prompt := *req.Prompt

	if h.logging {
		logger.Log.Info("Received prompt",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Int("prompt_length", len(prompt)),
		)
	}

	text, err := h.processor.Process(c.Request.Context(), prompt)
	if err != nil {
		if h.logging {
			logger.Log.Error("Prompt processing failed",
				zap.String("request_id", c.GetString(middleware.RequestIDKey)),
				zap.Error(err),
			)
		}
		c.JSON(h.errorStatus, utils.NewErrorResponse(errorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(text))
}

// errorMessage never returns an empty string.
func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%T", err)
}
