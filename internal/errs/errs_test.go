package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "gone")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))

	// 包装链中也能取到类别
	wrapped := fmt.Errorf("handler: %w", Newf(KindInsufficientStock, "insufficient stock for %s", "Mouse"))
	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInsufficientStock))
	assert.False(t, Is(wrapped, KindValidation))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindUnknown, "query products", cause)
	assert.Equal(t, "query products: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}
