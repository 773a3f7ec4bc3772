package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/api/middleware"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
	"github.com/google/uuid"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func authedRequest(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != uuid.Nil {
		ctx := middleware.WithUserID(req.Context(), userID.String())
		req = req.WithContext(ctx)
	}
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type errorBody struct {
	Status bool              `json:"Status"`
	Error  string            `json:"Error"`
	Code   string            `json:"Code"`
	Errors map[string]string `json:"Errors"`
}

func expectError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	if resp.Code != status {
		t.Fatalf("expected %d got %d: %s", status, resp.Code, resp.Body.String())
	}
	var body errorBody
	decodeBody(t, resp, &body)
	if body.Status || body.Code != code {
		t.Fatalf("unexpected error body %+v", body)
	}
	return body
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
