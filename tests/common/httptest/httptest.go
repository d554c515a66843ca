//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"shipflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// executes HTTP request with optional authorization
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Envelope mirrors the API response shape with the payload left raw so each
// test can decode it into the response type it expects.
type Envelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Message    string              `json:"message"`
	Count      *int                `json:"count"`
	Pagination *queries.Pagination `json:"pagination"`
}

// DecodeEnvelope decodes the uniform response envelope.
func DecodeEnvelope(t *testing.T, body *bytes.Buffer) Envelope {
	t.Helper()

	var env Envelope
	err := json.NewDecoder(body).Decode(&env)
	require.NoError(t, err, "Failed to decode response envelope")
	return env
}

// DecodeData decodes the envelope payload into target.
func (e Envelope) DecodeData(t *testing.T, target any) {
	t.Helper()

	require.NotNil(t, e.Data, "Response envelope carries no data")
	err := json.Unmarshal(e.Data, target)
	require.NoError(t, err, "Failed to decode envelope data")
}
