package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	infraES "vidtube-go/internal/infra/elasticsearch"
	infraKafka "vidtube-go/internal/infra/kafka"
	infraMinio "vidtube-go/internal/infra/minio"

	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu       sync.Mutex
	seq      int
	failKind string
	uploaded []string
	removed  []string
}

func (f *fakeStorage) Upload(_ context.Context, localPath, kind string) (*infraMinio.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == f.failKind {
		return nil, errors.New("storage unavailable")
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, err
	}
	f.seq++
	name := fmt.Sprintf("%s/obj-%d%s", kind, f.seq, filepath.Ext(localPath))
	f.uploaded = append(f.uploaded, name)
	return &infraMinio.Object{Name: name, URL: "http://media.test/" + name}, nil
}

func (f *fakeStorage) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, name)
	return nil
}

type fakeIndex struct {
	mu       sync.Mutex
	docs     map[int64]*infraES.VideoDoc
	deleted  []int64
	searchFn func(q infraES.VideoSearch) ([]int64, int64, error)
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[int64]*infraES.VideoDoc)}
}

func (f *fakeIndex) Upsert(_ context.Context, doc *infraES.VideoDoc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q infraES.VideoSearch) ([]int64, int64, error) {
	return f.searchFn(q)
}

type fakeProbes struct {
	tasks []*infraKafka.ProbeTask
}

func (f *fakeProbes) PublishProbeTask(_ context.Context, task *infraKafka.ProbeTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeStats struct {
	owners []int64
}

func (f *fakeStats) InvalidateStats(_ context.Context, ownerID int64) {
	f.owners = append(f.owners, ownerID)
}

// tempFile 模拟请求中已落盘的上传文件
func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))
	return path
}

func assertRemoved(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err), "temp file %s should be removed", p)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
