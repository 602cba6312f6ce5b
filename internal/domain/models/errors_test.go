package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorEqualityByKind(t *testing.T) {
	a := NetworkError(errors.New("dns"))
	b := NetworkError(errors.New("connection reset"))

	assert.True(t, a.Equal(b))
	assert.True(t, errors.Is(a, ErrNetwork))
	assert.False(t, errors.Is(a, ErrDecoding))
	assert.False(t, a.Equal(DecodingError(nil)))
}

func TestServerErrorComparesStatus(t *testing.T) {
	assert.True(t, ServerError(404).Equal(ServerError(404)))
	assert.False(t, ServerError(404).Equal(ServerError(500)))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", ServerError(503)), ServerError(503)))
	assert.False(t, errors.Is(ServerError(503), ServerError(502)))
}

func TestAppErrorNilEquality(t *testing.T) {
	var a, b *AppError
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(ErrUnknown))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := CacheError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cache error: root")
	assert.Equal(t, "server error (status 418)", ServerError(418).Error())
}

func TestMapError(t *testing.T) {
	var syntax map[string]any
	syntaxErr := json.Unmarshal([]byte("{"), &syntax)

	var typed struct {
		N int `json:"n"`
	}
	typeErr := json.Unmarshal([]byte(`{"n":"x"}`), &typed)

	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"already typed", ServerError(500), KindServer},
		{"wrapped typed", fmt.Errorf("x: %w", DecodingError(nil)), KindDecoding},
		{"json syntax", syntaxErr, KindDecoding},
		{"json type", typeErr, KindDecoding},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, KindNetwork},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"other", errors.New("???"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, MapError(tt.err).Kind)
		})
	}
	assert.Nil(t, MapError(nil))
}
