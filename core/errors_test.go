package core

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(EINVALID, "glyph %d has truncated flags", 17)
	assert.Equal(t, EINVALID, Code(err))
	assert.Equal(t, "glyph 17 has truncated flags", UserMessage(err))
	assert.True(t, IsCode(err, EINVALID))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
}

func TestWrappedErrorKeepsChain(t *testing.T) {
	err := WrapError(fs.ErrNotExist, EMISSING, "cannot read font %s", "x.ttf")
	assert.Equal(t, EMISSING, Code(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	outer := fmt.Errorf("generating atlas: %w", err)
	assert.Equal(t, EMISSING, Code(outer), "code should survive further wrapping")
}

func TestErrorWithCodeWrapsNil(t *testing.T) {
	err := ErrorWithCode(nil, EALLOC)
	assert.Equal(t, EALLOC, Code(err))
	assert.Equal(t, "allocation failure", UserMessage(err))
}
