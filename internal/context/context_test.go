package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserIDFromContext(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		expectedID string
		expectedOK bool
	}{
		{"set", WithUserID(context.Background(), "user-1"), "user-1", true},
		{"missing", context.Background(), "", false},
		{"empty", WithUserID(context.Background(), ""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := UserIDFromContext(tt.ctx)
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, tt.expectedOK, ok)
		})
	}
}

func TestMustUserIDFromContext(t *testing.T) {
	assert.Equal(t, "user-1", MustUserIDFromContext(WithUserID(context.Background(), "user-1")))
	assert.Panics(t, func() { MustUserIDFromContext(context.Background()) })
}
