package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takumanken/feed/internal/api/v1/relay"
	"github.com/takumanken/feed/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubProcessor struct {
	text    string
	err     error
	prompts []string
}

func (s *stubProcessor) Process(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

func performRequest(h *relay.Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/process", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Process(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProcessSuccess(t *testing.T) {
	logger.Log = zap.NewNop()
	stub := &stubProcessor{text: "world"}
	h := relay.NewHandler(stub, http.StatusOK, false)

	w := performRequest(h, `{"prompt":"hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"response": "world"}, decode(t, w))
	assert.Equal(t, []string{"hello"}, stub.prompts)
}

func TestProcessErrorStatusFollowsOptions(t *testing.T) {
	logger.Log = zap.NewNop()

	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		stub := &stubProcessor{err: errors.New("timeout")}
		h := relay.NewHandler(stub, status, false)

		w := performRequest(h, `{"prompt":"hello"}`)

		assert.Equal(t, status, w.Code)
		assert.Equal(t, map[string]interface{}{"error": "timeout"}, decode(t, w))
		assert.Len(t, stub.prompts, 1)
	}
}

func TestProcessEmptyErrorMessageIsReplaced(t *testing.T) {
	logger.Log = zap.NewNop()
	h := relay.NewHandler(&stubProcessor{err: emptyError{}}, http.StatusOK, false)

	w := performRequest(h, `{"prompt":"hello"}`)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["error"])
	assert.NotContains(t, resp, "response")
}

func TestProcessAcceptsEmptyPrompt(t *testing.T) {
	logger.Log = zap.NewNop()
	stub := &stubProcessor{text: "ok"}
	h := relay.NewHandler(stub, http.StatusOK, false)

	w := performRequest(h, `{"prompt":""}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{""}, stub.prompts)
}

func TestProcessRejectsInvalidBodies(t *testing.T) {
	logger.Log = zap.NewNop()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing prompt", body: `{}`, field: "prompt"},
		{name: "null prompt", body: `{"prompt":null}`, field: "prompt"},
		{name: "non-string prompt", body: `{"prompt":42}`, field: "prompt"},
		{name: "malformed json", body: `{"prompt":`, field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProcessor{text: "unused"}
			h := relay.NewHandler(stub, http.StatusOK, false)

			w := performRequest(h, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "Invalid request parameters", resp["error"])
			detail, ok := resp["detail"].([]interface{})
			require.True(t, ok)
			require.Len(t, detail, 1)
			assert.Equal(t, tt.field, detail[0].(map[string]interface{})["field"])
			assert.Empty(t, stub.prompts)
		})
	}
}

func TestProcessLogsReceiptAndFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Log = zap.New(core)
	defer func() { logger.Log = zap.NewNop() }()

	h := relay.NewHandler(&stubProcessor{err: errors.New("timeout")}, http.StatusInternalServerError, true)
	performRequest(h, `{"prompt":"hello"}`)

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Received prompt", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "timeout", entries[1].ContextMap()["error"])
}

func TestProcessWithoutLoggingIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Log = zap.New(core)
	defer func() { logger.Log = zap.NewNop() }()

	h := relay.NewHandler(&stubProcessor{err: errors.New("timeout")}, http.StatusOK, false)
	performRequest(h, `{"prompt":"hello"}`)

	assert.Equal(t, 0, logs.Len())
}
