package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "tagsense/internal/errors"
	"tagsense/pkg/types"
)

func TestProcessFileSuccess(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.items["/a/report.txt"] = types.ItemResult{
		Success: true,
		Model:   "text-v1",
		Tags:    []string{"finance", "2024"},
	}

	engine.SelectFile("/a/report.txt")
	r, err := engine.ProcessFile(context.Background())
	require.NoError(t, err)

	assert.True(t, r.Success)
	assert.Equal(t, types.SingleFile, r.SourceKind)
	assert.Empty(t, r.OriginFolder)
	assert.Equal(t, "text-v1", r.ModelUsed)
	assert.Equal(t, []string{"finance", "2024"}, r.Tags)
	assert.False(t, r.Timestamp.IsZero())

	require.Equal(t, 1, engine.Results().Len())
	entries := engine.Results().Entries()
	assert.Equal(t, r.ID, entries[0].ID)
}

func TestProcessFileFailureIsLogged(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.items["/a/broken.txt"] = types.ItemResult{
		Success: false,
		Error:   "could not extract text from file",
	}

	engine.SelectFile("/a/broken.txt")
	r, err := engine.ProcessFile(context.Background())
	require.NoError(t, err, "item failures are logged, not returned")

	assert.False(t, r.Success)
	assert.Equal(t, "could not extract text from file", r.ErrorDetail)
	assert.Equal(t, 1, engine.Results().Len())
}

func TestProcessFileModelRouting(t *testing.T) {
	engine, _ := newTestEngine(t)

	// The fake does not report a model, so the engine's own
	// classification decides the route
	engine.SelectFile("/docs/photo.jpg")
	r, err := engine.ProcessFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "llama3.2-vision:11b", r.ModelUsed)

	engine.SelectFile("/docs/notes.md")
	r, err = engine.ProcessFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tinyllama", r.ModelUsed)
}

func TestProcessFolderStreamsAllEntries(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.files = []string{"/docs/a.txt", "/docs/b.jpg"}
	fake.items["/docs/a.txt"] = types.ItemResult{Success: true, Model: "text-v1", Tags: []string{"notes"}}
	fake.items["/docs/b.jpg"] = types.ItemResult{Success: true, Model: "vision-v1", Tags: []string{"photo"}}

	var streamed []types.ProcessingResult
	engine.OnResult(func(r types.ProcessingResult) {
		streamed = append(streamed, r)
	})

	var progress []string
	engine.OnProgress(func(index, total int, name string) {
		progress = append(progress, name)
	})

	engine.SelectFolder("/docs")
	success, fail, err := engine.ProcessFolder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, success)
	assert.Equal(t, 0, fail)
	assert.Equal(t, "2 successful, 0 failed out of 2 files", engine.StatusMessage())

	require.Len(t, streamed, 2, "each entry streams the moment it completes")
	assert.Equal(t, []string{"a.txt", "b.jpg"}, progress)

	entries := engine.Results().Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, types.FolderMember, e.SourceKind)
		assert.Equal(t, "/docs", e.OriginFolder)
	}
	// Prepend order: the last completed item is first
	assert.Equal(t, "/docs/b.jpg", entries[0].Path)
	assert.Equal(t, "/docs/a.txt", entries[1].Path)
}

func TestProcessFolderIsolation(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.files = []string{"/docs/a.txt", "/docs/b.txt", "/docs/c.txt"}
	fake.items["/docs/b.txt"] = types.ItemResult{Success: false, Error: "unsupported file type: .b"}

	engine.SelectFolder("/docs")
	success, fail, err := engine.ProcessFolder(context.Background())
	require.NoError(t, err)

	// Item 2 failing never skips item 3
	assert.Equal(t, 2, success)
	assert.Equal(t, 1, fail)
	assert.Equal(t, 3, engine.Results().Len())
	assert.Equal(t, []string{"/docs/a.txt", "/docs/b.txt", "/docs/c.txt"}, fake.processedPaths(),
		"iteration is strictly sequential")
	assert.Equal(t, "2 successful, 1 failed out of 3 files", engine.StatusMessage())
}

func TestProcessFolderCountersAlwaysSumToTotal(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.files = []string{"/d/1.txt", "/d/2.txt", "/d/3.txt", "/d/4.txt", "/d/5.txt"}
	fake.items["/d/2.txt"] = types.ItemResult{Success: false, Error: "model error"}
	fake.itemErrs["/d/4.txt"] = serr.NewContentError("extraction failed", "/d/4.txt", nil)

	engine.SelectFolder("/d")
	success, fail, err := engine.ProcessFolder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(fake.files), success+fail)
	assert.Equal(t, len(fake.files), engine.Results().Len())
}

func TestProcessFolderListingFailureIsAllOrNothing(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.listErr = serr.NewEnumerationError("folder listing failed", "/docs", nil)

	engine.SelectFolder("/docs")
	_, _, err := engine.ProcessFolder(context.Background())

	require.Error(t, err)
	assert.True(t, serr.IsEnumeration(err))
	assert.Equal(t, 0, engine.Results().Len(), "no partial entries for a failed listing")
	assert.Contains(t, engine.StatusMessage(), "folder listing failed")
	assert.Empty(t, fake.processedPaths())
}

func TestProcessFolderSkipsIgnoredFiles(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.files = []string{"/docs/a.txt", "/docs/.hidden", "/docs/draft.tmp", "/docs/b.txt"}

	engine.SelectFolder("/docs")
	success, fail, err := engine.ProcessFolder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, success+fail)
	assert.Equal(t, []string{"/docs/a.txt", "/docs/b.txt"}, fake.processedPaths())
}

func TestProcessPathBypassesSelection(t *testing.T) {
	engine, _ := newTestEngine(t)

	r, err := engine.ProcessPath(context.Background(), "/drop/new.txt")
	require.NoError(t, err)

	assert.Equal(t, types.SingleFile, r.SourceKind)
	assert.Equal(t, 1, engine.Results().Len())
	assert.True(t, engine.Selection().IsNone(), "selection stays untouched")
}

func TestConnectivityFailureSchedulesOneRecheck(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.files = []string{"/d/1.txt", "/d/2.txt", "/d/3.txt"}
	for _, f := range fake.files {
		fake.itemErrs[f] = serr.NewConnectivityError("backend unreachable", nil)
	}

	baseline := fake.healthCallCount()

	engine.SelectFolder("/d")
	_, fail, err := engine.ProcessFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fail, "connectivity failures do not abort the loop")

	// Three back-to-back failures collapse into a single debounced
	// re-check
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, baseline+1, fake.healthCallCount())
}

func TestContentFailureSchedulesNoRecheck(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.items["/a/bad.txt"] = types.ItemResult{Success: false, Error: "unsupported file type: .xyz"}

	baseline := fake.healthCallCount()

	engine.SelectFile("/a/bad.txt")
	_, err := engine.ProcessFile(context.Background())
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, baseline, fake.healthCallCount(), "content errors must not trigger a re-check")
}

func TestUntypedConnectivityMessageFallsBackToHeuristic(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.items["/a/doc.txt"] = types.ItemResult{
		Success: false,
		Error:   "request failed: connection refused",
	}

	baseline := fake.healthCallCount()

	engine.SelectFile("/a/doc.txt")
	_, err := engine.ProcessFile(context.Background())
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, baseline+1, fake.healthCallCount())
}

func TestClearResultsInvalidatesEdit(t *testing.T) {
	engine, fake := newTestEngine(t)
	fake.items["/a/x.txt"] = types.ItemResult{Success: true, Tags: []string{"one"}}

	engine.SelectFile("/a/x.txt")
	r, err := engine.ProcessFile(context.Background())
	require.NoError(t, err)

	require.True(t, engine.Editor().StartEdit(r.ID, 0))
	engine.ClearResults()

	assert.Equal(t, 0, engine.Results().Len())
	_, active := engine.Editor().Session()
	assert.False(t, active)
}
