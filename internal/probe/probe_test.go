package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	infraKafka "vidtube-go/internal/infra/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   float64
		err    bool
	}{
		{"format", `{"format":{"duration":"12.480000"},"streams":[{"duration":"12.0"}]}`, 12.48, false},
		{"streams fallback", `{"format":{},"streams":[{"duration":"3.5"},{"duration":"4.25"}]}`, 4.25, false},
		{"no duration", `{"format":{"duration":"N/A"},"streams":[]}`, 0, true},
		{"garbage", `not json`, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDuration([]byte(tc.output))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

type fakeDownloader struct {
	fail bool
}

func (f *fakeDownloader) Download(_ context.Context, _ string, localPath string) error {
	if f.fail {
		return errors.New("no such object")
	}
	return os.WriteFile(localPath, []byte("video"), 0o600)
}

type fakeResults struct {
	results []*infraKafka.ProbeResult
}

func (f *fakeResults) PublishProbeResult(_ context.Context, r *infraKafka.ProbeResult) error {
	f.results = append(f.results, r)
	return nil
}

func TestWorkerPublishesDuration(t *testing.T) {
	dir := t.TempDir()
	results := &fakeResults{}
	w := NewWorker(&fakeDownloader{}, results, dir)

	var probed string
	w.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "ffprobe", name)
		probed = args[len(args)-1]
		_, err := os.Stat(probed)
		require.NoError(t, err)
		return []byte(`{"format":{"duration":"61.2"}}`), nil
	}

	require.NoError(t, w.Handle(context.Background(), &infraKafka.ProbeTask{VideoID: 7, ObjectName: "videos/abc.mp4"}))
	require.Len(t, results.results, 1)
	assert.Equal(t, int64(7), results.results[0].VideoID)
	assert.InDelta(t, 61.2, results.results[0].Duration, 1e-9)
	assert.Empty(t, results.results[0].Error)

	assert.Equal(t, filepath.Join(dir, "7.mp4"), probed)
	_, err := os.Stat(probed)
	assert.True(t, os.IsNotExist(err))
}

func TestWorkerReportsFailure(t *testing.T) {
	results := &fakeResults{}
	w := NewWorker(&fakeDownloader{fail: true}, results, t.TempDir())
	w.run = func(context.Context, string, ...string) ([]byte, error) {
		t.Fatal("ffprobe must not run without a local file")
		return nil, nil
	}

	require.NoError(t, w.Handle(context.Background(), &infraKafka.ProbeTask{VideoID: 9, ObjectName: "videos/missing.mp4"}))
	require.Len(t, results.results, 1)
	assert.Contains(t, results.results[0].Error, "no such object")
	assert.Zero(t, results.results[0].Duration)
}
