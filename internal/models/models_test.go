package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceView(t *testing.T) {
	now := time.Now()
	place := &Place{
		ID:        3,
		Name:      "Library",
		UserID:    7,
		Owner:     &User{ID: 7, Username: "alice"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	view := NewPlaceView(place, nil, EngagementCounts{LikeCount: 2, FavoriteCount: 1})
	assert.Equal(t, "alice", view.UserUsername)
	assert.NotNil(t, view.Categories)
	assert.Empty(t, view.Categories)
	assert.EqualValues(t, 2, view.LikeCount)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, []interface{}{}, flat["categories"])
	assert.EqualValues(t, 2, flat["like_count"])
	assert.EqualValues(t, 0, flat["dislike_count"])
	assert.Equal(t, "alice", flat["user_username"])
}

func TestOwnerUsername_NotLoaded(t *testing.T) {
	assert.Equal(t, "", (&Place{}).OwnerUsername())
}

func TestUserJSONHidesPassword(t *testing.T) {
	raw, err := json.Marshal(User{ID: 1, Username: "bob", Password: "$2a$10$hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
}

func TestIsCode(t *testing.T) {
	err := NewNotFoundError("Place", 9)
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeForbidden))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
	assert.Equal(t, "Place with ID 9 not found", err.Error())
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		err      error
		wantBody string
	}{
		{"app error", fiber.StatusBadRequest, NewValidationError("Name is required"), `{"error":"Name is required","code":"VALIDATION_ERROR"}`},
		{"internal app error hides cause", fiber.StatusInternalServerError, NewInternalError(errors.New("dial tcp 10.0.0.1")), `{"error":"Internal server error","code":"INTERNAL_ERROR"}`},
		{"plain 5xx hides message", fiber.StatusInternalServerError, errors.New("dial tcp 10.0.0.1"), `{"error":"Internal server error","code":"INTERNAL_ERROR"}`},
		{"plain 4xx keeps message", fiber.StatusBadRequest, errors.New("bad input"), `{"error":"bad input"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}
