package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordToggle(t *testing.T) {
	on := testutil.ToFloat64(TogglesTotal.WithLabelValues("video_like", "on"))
	off := testutil.ToFloat64(TogglesTotal.WithLabelValues("video_like", "off"))

	RecordToggle("video_like", true)
	RecordToggle("video_like", true)
	RecordToggle("video_like", false)

	assert.Equal(t, on+2, testutil.ToFloat64(TogglesTotal.WithLabelValues("video_like", "on")))
	assert.Equal(t, off+1, testutil.ToFloat64(TogglesTotal.WithLabelValues("video_like", "off")))
}
