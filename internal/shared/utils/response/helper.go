package response

import (
	"github.com/gin-gonic/gin"

	"stagepass/internal/shared/apperr"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error maps err through the apperr taxonomy and writes an error
// envelope with the matching status code.
func Error(c *gin.Context, message string, err error) {
	RespondJSON(c, "error", apperr.HTTPStatus(err), message, nil, err.Error())
}
