package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesKind(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("price basket: %w", ErrUnknownItems)

	assert.True(t, errors.Is(wrapped, ErrInvalidBasket))
	assert.True(t, errors.Is(wrapped, ErrUnknownItems))
	assert.False(t, errors.Is(wrapped, ErrEmptyBasket))
	assert.Equal(t, "One or more items are invalid.", Message(wrapped, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("db down"), "fallback"))
}

func TestSession_Authenticated(t *testing.T) {
	t.Parallel()

	var s *Session
	assert.False(t, s.Authenticated())
	assert.False(t, (&Session{}).Authenticated())
	assert.True(t, (&Session{UserID: "u1"}).Authenticated())
}
