package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookeasy/internal/pkg/validator"
)

// Error codes shared by every handler.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeOperationFailed = "OPERATION_FAILED"
	CodeRateLimited     = "RATE_LIMITED"
)

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationError writes a 400 with per-field details when err carries them.
func ValidationError(c *gin.Context, err error) {
	var verr *validator.Error
	if errors.As(err, &verr) {
		ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "Validation failed", verr.Fields)
		return
	}
	Error(c, http.StatusBadRequest, CodeValidation, err.Error())
}
