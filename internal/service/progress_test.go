package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker_Lifecycle(t *testing.T) {
	tr := NewProgressTracker()

	id := tr.Start("report.pdf")
	require.NotEmpty(t, id)

	entries := tr.List()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusPending, entries[0].Status)
	assert.Equal(t, 0, entries[0].Progress)

	tr.SetStatus(id, StatusUploading)
	tr.SetProgress(id, 40)
	assert.Equal(t, 40, tr.List()[0].Progress)

	tr.SetStatus(id, StatusProcessing)
	entry := tr.List()[0]
	assert.Equal(t, StatusProcessing, entry.Status)
	assert.Equal(t, 100, entry.Progress)

	tr.SetStatus(id, StatusCompleted)
	assert.Equal(t, StatusCompleted, tr.List()[0].Status)

	tr.Remove(id)
	assert.Empty(t, tr.List())
}

func TestProgressTracker_ErrorKeepsMessage(t *testing.T) {
	tr := NewProgressTracker()
	id := tr.Start("broken.docx")

	tr.Fail(id, "storage unreachable")

	entry := tr.List()[0]
	assert.Equal(t, StatusError, entry.Status)
	assert.Equal(t, "storage unreachable", entry.Error)
}

// Two files sharing a name must not collide: entries are keyed by a generated
// upload ID.
func TestProgressTracker_SameFileNameNoCollision(t *testing.T) {
	tr := NewProgressTracker()

	a := tr.Start("notes.txt")
	b := tr.Start("notes.txt")
	require.NotEqual(t, a, b)

	tr.SetProgress(a, 30)
	tr.Fail(b, "boom")

	entries := tr.List()
	require.Len(t, entries, 2)
	assert.Equal(t, 30, entries[0].Progress)
	assert.Equal(t, StatusPending, entries[0].Status)
	assert.Equal(t, StatusError, entries[1].Status)
}

func TestProgressTracker_ClampsPercent(t *testing.T) {
	tr := NewProgressTracker()
	id := tr.Start("big.xlsx")

	tr.SetProgress(id, 150)
	assert.Equal(t, 100, tr.List()[0].Progress)

	tr.SetProgress(id, -3)
	assert.Equal(t, 0, tr.List()[0].Progress)
}

func TestProgressReader_ReportsPercent(t *testing.T) {
	tr := NewProgressTracker()
	id := tr.Start("stream.txt")

	pr := &progressReader{
		r:       strings.NewReader("0123456789"),
		tracker: tr,
		id:      id,
		total:   10,
	}

	buf := make([]byte, 4)
	_, err := pr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 40, tr.List()[0].Progress)

	_, err = pr.Read(buf)
	require.NoError(t, err)
	_, err = pr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 100, tr.List()[0].Progress)
}
