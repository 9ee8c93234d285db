package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsense/internal/config"
	"tagsense/internal/watch"
	"tagsense/internal/workflow"
	"tagsense/pkg/types"
)

// recordingCollaborator answers every request successfully and remembers
// what it processed
type recordingCollaborator struct {
	mu        sync.Mutex
	processed []string
}

func (f *recordingCollaborator) HealthCheck(ctx context.Context) (types.HealthReport, error) {
	return types.HealthReport{BackendReachable: true, ModelReachable: true}, nil
}

func (f *recordingCollaborator) ProcessItem(ctx context.Context, path string, prompt string) (types.ItemResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, path)
	return types.ItemResult{Success: true, Tags: []string{"auto"}}, nil
}

func (f *recordingCollaborator) ListFolder(ctx context.Context, path string) ([]string, error) {
	return nil, nil
}

func (f *recordingCollaborator) processedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.processed))
	copy(out, f.processed)
	return out
}

func newWatchFixture(t *testing.T) (*watch.Watcher, *workflow.Engine, *recordingCollaborator, string) {
	t.Helper()

	fake := &recordingCollaborator{}
	engine := workflow.New(config.NewTestConfig(), fake)
	engine.Monitor().Check(context.Background())

	w, err := watch.New(engine, 50*time.Millisecond)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	return w, engine, fake, dir
}

func TestWatcherDispatchesNewFile(t *testing.T) {
	_, engine, fake, dir := newWatchFixture(t)

	path := filepath.Join(dir, "incoming.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	require.Eventually(t, func() bool {
		return len(fake.processedPaths()) == 1
	}, 3*time.Second, 25*time.Millisecond)

	assert.Equal(t, []string{path}, fake.processedPaths())

	entries := engine.Results().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, types.SingleFile, entries[0].SourceKind)
	assert.Equal(t, path, entries[0].Path)
}

func TestWatcherCollapsesWriteBursts(t *testing.T) {
	_, _, fake, dir := newWatchFixture(t)

	path := filepath.Join(dir, "growing.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("chunk\n")
		require.NoError(t, err)
		require.NoError(t, f.Sync())
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return len(fake.processedPaths()) >= 1
	}, 3*time.Second, 25*time.Millisecond)

	// The settle window keeps collapsing as long as writes keep coming
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, len(fake.processedPaths()))
}

func TestWatcherIgnoresHiddenAndTempFiles(t *testing.T) {
	_, _, fake, dir := newWatchFixture(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.txt~"), []byte("x"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, fake.processedPaths())
}

func TestWatcherRejectsMissingDirectory(t *testing.T) {
	engine := workflow.New(config.NewTestConfig(), &recordingCollaborator{})
	w, err := watch.New(engine, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddDirectory("/does/not/exist"))

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Error(t, w.AddDirectory(file), "files are not watchable")
}

func TestWatcherStartTwiceFails(t *testing.T) {
	w, _, _, _ := newWatchFixture(t)
	assert.Error(t, w.Start())
}
