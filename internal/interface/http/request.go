package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pixcredit/pkg/response"
	"github.com/oksasatya/pixcredit/pkg/validation"
)

// bind decodes the JSON body into req and writes a 400 when it is invalid.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error[any](c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
		return false
	}
	return true
}

type userView struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
