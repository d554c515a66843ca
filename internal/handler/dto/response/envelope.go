package response

import (
	"net/http"

	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape. Business rejections travel as
// success=false with a message; transport-level failures use HTTP status
// codes on the same shape.
type Envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Count      *int                `json:"count,omitempty"`
	Pagination *queries.Pagination `json:"pagination,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func SuccessList(c *gin.Context, data any, count int, pagination *queries.Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Pagination: pagination})
}

// Rejected reports a business-rule rejection. The request itself succeeded,
// so the status is 200 and the outcome rides in the envelope.
func Rejected(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: false, Message: message})
}
