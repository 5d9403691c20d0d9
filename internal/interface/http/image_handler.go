package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
	"github.com/oksasatya/pixcredit/pkg/response"
)

type ImageHandler struct {
	Svc    *application.ImageService
	Logger *logrus.Logger
}

func NewImageHandler(svc *application.ImageService, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{Svc: svc, Logger: logger}
}

type generateRequest struct {
	Prompt string `json:"prompt" binding:"required,max=1000"`
}

// Generate POST /api/image/generate-image
func (h *ImageHandler) Generate(c *gin.Context) {
	var req generateRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.Generate(c.Request.Context(), middleware.UserID(c), req.Prompt)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Image Generated", nil)
}

// History GET /api/image/history?q=
func (h *ImageHandler) History(c *gin.Context) {
	images, err := h.Svc.History(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, images, "", map[string]any{"count": len(images)})
}
