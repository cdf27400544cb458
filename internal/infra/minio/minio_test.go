package minio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	name := ObjectName(KindVideo, "/tmp/upload/Clip.MP4", now)
	assert.True(t, strings.HasPrefix(name, "videos/2025/03/"), name)
	assert.True(t, strings.HasSuffix(name, ".mp4"), name)

	other := ObjectName(KindVideo, "/tmp/upload/Clip.MP4", now)
	assert.NotEqual(t, name, other)
}

func TestURLAndContentType(t *testing.T) {
	s := &Storage{bucket: "media", baseURL: PublicBaseURL("cdn.local:9000", true)}
	assert.Equal(t, "https://cdn.local:9000/media/avatars/a.png", s.URL("avatars/a.png"))

	assert.Equal(t, "video/mp4", contentType("x.mp4"))
	assert.Equal(t, "image/jpeg", contentType("x.JPEG"))
	assert.Equal(t, "application/octet-stream", contentType("x.bin"))
}
