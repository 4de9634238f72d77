// Package uploads defines the upload lifecycle collaborator consumed by
// the file-uploader widget. The engine itself treats a file-uploader
// value as an opaque int array; this package owns the binary payloads
// keyed by session, widget identity and a monotonically increasing file
// id.
package uploads

import (
	"sort"
	"sync"
)

// File is one uploaded file payload.
type File struct {
	ID   int64
	Name string
	Type string
	Data []byte
}

// Manager owns uploaded files for widget identities within sessions.
// GetFiles returns the files matching the active ids; RemoveOrphanedFiles
// garbage-collects files the client no longer references.
type Manager interface {
	GetFiles(sessionID, widgetID string, fileIDs []int64) ([]File, error)
	RemoveOrphanedFiles(sessionID, widgetID string, newestFileID int64, activeFileIDs []int64) error
}

// MemoryManager is an in-memory Manager intended for tests, examples and
// single-process deployments.
type MemoryManager struct {
	mu     sync.Mutex
	nextID int64
	files  map[fileKey][]File
}

type fileKey struct {
	sessionID string
	widgetID  string
}

// NewMemoryManager constructs an empty manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{files: map[fileKey][]File{}}
}

// Add stores a file for the widget and assigns it the next file id.
func (m *MemoryManager) Add(sessionID, widgetID string, file File) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	file.ID = m.nextID
	key := fileKey{sessionID: sessionID, widgetID: widgetID}
	m.files[key] = append(m.files[key], file)
	return file.ID
}

// GetFiles returns the stored files whose ids appear in fileIDs, ordered
// by id.
func (m *MemoryManager) GetFiles(sessionID, widgetID string, fileIDs []int64) ([]File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[int64]struct{}, len(fileIDs))
	for _, id := range fileIDs {
		wanted[id] = struct{}{}
	}
	var out []File
	for _, file := range m.files[fileKey{sessionID: sessionID, widgetID: widgetID}] {
		if _, ok := wanted[file.ID]; ok {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RemoveOrphanedFiles drops every file that is older than newestFileID
// and not in the active set. Files newer than newestFileID are kept:
// they may belong to an upload still in flight.
func (m *MemoryManager) RemoveOrphanedFiles(sessionID, widgetID string, newestFileID int64, activeFileIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := make(map[int64]struct{}, len(activeFileIDs))
	for _, id := range activeFileIDs {
		active[id] = struct{}{}
	}
	key := fileKey{sessionID: sessionID, widgetID: widgetID}
	kept := m.files[key][:0]
	for _, file := range m.files[key] {
		_, isActive := active[file.ID]
		if file.ID > newestFileID || isActive {
			kept = append(kept, file)
		}
	}
	if len(kept) == 0 {
		delete(m.files, key)
		return nil
	}
	m.files[key] = kept
	return nil
}

// RemoveSession drops every file belonging to the session.
func (m *MemoryManager) RemoveSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.files {
		if key.sessionID == sessionID {
			delete(m.files, key)
		}
	}
}
