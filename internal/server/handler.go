package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/lyricnote/internal/annotate"
	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/pkg/response"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type AnnotateHandler struct {
	svc    *annotate.Service
	logger *logger.Logger
}

func NewAnnotateHandler(svc *annotate.Service, lgr *logger.Logger) *AnnotateHandler {
	return &AnnotateHandler{svc: svc, logger: lgr}
}

func (h *AnnotateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/annotate", h.Annotate)
}

// Annotate accepts the same JSON document as the CLI.
func (h *AnnotateHandler) Annotate(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrInvalidInput, "request body too large or unreadable"))
		return
	}

	result, err := h.svc.AnnotateRaw(c.Request.Context(), body)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Warn("annotate request rejected", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}
