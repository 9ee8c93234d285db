package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsense/internal/workflow"
	"tagsense/pkg/types"
)

func newEditorFixture(t *testing.T) (*workflow.ResultLog, *workflow.TagEditor, types.ProcessingResult) {
	t.Helper()
	log := workflow.NewResultLog()
	editor := workflow.NewTagEditor(log)
	r := log.Append(types.ProcessingResult{
		Path:    "/a/report.txt",
		Success: true,
		Tags:    []string{"finance", "2024"},
	})
	return log, editor, r
}

func TestEditorStartChangeCommit(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 0))

	session, active := editor.Session()
	require.True(t, active)
	assert.Equal(t, "finance", session.PendingValue, "pending value seeds from the current tag")

	editor.Change("fin")
	editor.Change("financial")
	require.True(t, editor.Commit())

	_, active = editor.Session()
	assert.False(t, active, "commit returns to idle")

	got, _ := log.Get(r.ID)
	assert.Equal(t, []string{"financial", "2024"}, got.Tags)
}

func TestEditorCancelMutatesNothing(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 1))
	editor.Change("something else")
	editor.Cancel()

	_, active := editor.Session()
	assert.False(t, active)

	got, _ := log.Get(r.ID)
	assert.Equal(t, []string{"finance", "2024"}, got.Tags)
}

func TestEditorCommitEmptyRemovesTag(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 0))
	editor.Change("")
	editor.Commit()

	got, _ := log.Get(r.ID)
	assert.Equal(t, []string{"2024"}, got.Tags, "tag count decreases by exactly one")

	_, active := editor.Session()
	assert.False(t, active)
}

func TestEditorSingleSlot(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 0))
	editor.Change("staged but never confirmed")

	// Starting a new edit discards the prior pending value
	require.True(t, editor.StartEdit(r.ID, 1))

	session, active := editor.Session()
	require.True(t, active)
	assert.Equal(t, 1, session.TagIndex)
	assert.Equal(t, "2024", session.PendingValue)

	editor.Commit()
	got, _ := log.Get(r.ID)
	assert.Equal(t, []string{"finance", "2024"}, got.Tags,
		"the discarded edit must never have been written")
}

func TestEditorRejectsMissingTargets(t *testing.T) {
	_, editor, r := newEditorFixture(t)

	assert.False(t, editor.StartEdit(999, 0), "unknown result id")
	assert.False(t, editor.StartEdit(r.ID, 5), "tag index out of range")
	assert.False(t, editor.StartEdit(r.ID, -1), "negative tag index")

	_, active := editor.Session()
	assert.False(t, active)
}

func TestEditorInvalidateAfterClear(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 0))
	log.ClearAll()
	editor.Invalidate()

	_, active := editor.Session()
	assert.False(t, active, "session targeting a cleared result must be dropped")

	assert.False(t, editor.Commit(), "a dropped session commits nothing")
}

func TestEditorCommitAfterTargetVanishedIsNoOp(t *testing.T) {
	log, editor, r := newEditorFixture(t)

	require.True(t, editor.StartEdit(r.ID, 0))
	editor.Change("new value")
	log.ClearAll()

	// Without an invalidate in between, commit still cannot write into
	// a vanished entry
	assert.False(t, editor.Commit())
	assert.Equal(t, 0, log.Len())
}
