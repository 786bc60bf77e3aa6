package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeySanitizesFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	key := ObjectKey("u1", "nota toko (1).jpg", now)
	assert.Equal(t, "uploads/u1/1700000000000-nota_toko__1_.jpg", key)

	// Path components are stripped before sanitizing.
	key = ObjectKey("u1", "../../etc/passwd", now)
	assert.Equal(t, "uploads/u1/1700000000000-passwd", key)
	assert.False(t, strings.Contains(key, ".."))
}

func TestValidateContentType(t *testing.T) {
	c := &Client{}

	assert.NoError(t, c.ValidateContentType("image/png"))
	assert.NoError(t, c.ValidateContentType("audio/webm;codecs=opus"))
	assert.NoError(t, c.ValidateContentType("Application/PDF"))
	assert.Error(t, c.ValidateContentType("text/html"))
	assert.Error(t, c.ValidateContentType(""))
}
