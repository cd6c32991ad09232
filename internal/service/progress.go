package service

import (
	"io"
	"sync"

	"github.com/google/uuid"
)

// UploadStatus is the lifecycle stage of one in-flight upload.
type UploadStatus string

const (
	StatusPending    UploadStatus = "pending"
	StatusUploading  UploadStatus = "uploading"
	StatusProcessing UploadStatus = "processing"
	StatusCompleted  UploadStatus = "completed"
	StatusError      UploadStatus = "error"
)

// UploadProgress is the ephemeral, per-upload progress entry. Entries are
// keyed by a generated upload ID rather than by filename, so two concurrent
// uploads of files sharing a name never collide. The error message is only
// set in the error state.
type UploadProgress struct {
	ID       string       `json:"id"`
	FileName string       `json:"file_name"`
	Progress int          `json:"progress"`
	Status   UploadStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
}

// ProgressTracker holds progress entries for every in-flight upload. It is
// safe for concurrent use; each upload mutates only its own entry. Entries
// are not expired automatically — a completed or failed entry stays until
// removed.
type ProgressTracker struct {
	mu      sync.RWMutex
	entries map[string]*UploadProgress
	order   []string
}

// NewProgressTracker creates an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{entries: make(map[string]*UploadProgress)}
}

// Start registers a new upload in the pending state and returns its ID.
func (t *ProgressTracker) Start(fileName string) string {
	id := uuid.NewString()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = &UploadProgress{ID: id, FileName: fileName, Status: StatusPending}
	t.order = append(t.order, id)
	return id
}

// SetStatus moves an upload to the given stage. Entering processing implies
// the blob transfer finished, so progress snaps to 100.
func (t *ProgressTracker) SetStatus(id string, status UploadStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[id]; ok {
		e.Status = status
		if status == StatusProcessing || status == StatusCompleted {
			e.Progress = 100
		}
	}
}

// SetProgress records blob-transfer completion as a percentage in [0,100].
func (t *ProgressTracker) SetProgress(id string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[id]; ok {
		e.Progress = percent
	}
}

// Fail moves an upload to the error state with the captured message.
func (t *ProgressTracker) Fail(id string, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[id]; ok {
		e.Status = StatusError
		e.Error = msg
	}
}

// Remove drops an entry. Removing an entry does not abort in-flight I/O.
func (t *ProgressTracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// List returns a snapshot of all entries in start order.
func (t *ProgressTracker) List() []UploadProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]UploadProgress, 0, len(t.order))
	for _, id := range t.order {
		if e, ok := t.entries[id]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// progressReader reports blob-transfer percentage to the tracker as the
// storage client consumes the stream.
type progressReader struct {
	r       io.Reader
	tracker *ProgressTracker
	id      string
	total   int64
	read    int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		p.tracker.SetProgress(p.id, int(p.read*100/p.total))
	}
	return n, err
}
