package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := Wrap(os.ErrNotExist, KindSourceUnreadable, "cannot open video").
		WithContext("path", "/tmp/clip.mp4")

	msg := err.Error()
	assert.Contains(t, msg, "[SourceUnreadable] cannot open video")
	assert.Contains(t, msg, "path=/tmp/clip.mp4")
	assert.Contains(t, msg, "cause: file does not exist")
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := New(KindTimeout, "transcoder timed out")
	outer := fmt.Errorf("audio chain: %w", inner)

	assert.True(t, IsKind(outer, KindTimeout))
	assert.False(t, IsKind(outer, KindDecodeFailed))
	assert.Equal(t, KindTimeout, KindOf(outer))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	err := Wrap(os.ErrPermission, KindSourceUnreadable, "denied")
	assert.True(t, errors.Is(err, os.ErrPermission))
}
