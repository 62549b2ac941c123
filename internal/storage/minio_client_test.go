package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	name := ObjectName("u1", "Beach.PNG", now)
	assert.True(t, strings.HasPrefix(name, "images/u1/2024/03/"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)

	assert.True(t, strings.HasSuffix(ObjectName("u1", "noext", now), ".jpg"))
	assert.NotEqual(t, ObjectName("u1", "a.jpg", now), ObjectName("u1", "a.jpg", now))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "image/jpeg", ContentType("a.JPG"))
	assert.Equal(t, "application/octet-stream", ContentType("a.unknownext"))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/images/a/b.jpg", ObjectURL("http://localhost:9000/", "images", "a/b.jpg"))
}
