package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"formloft-hq/curator/pkg/retention"
)

// MemoryStore implements the Store interface using in-memory maps.
// Intended for tests; not for production use.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions map[string]*retention.Submission
	fieldValues map[string]*retention.FieldValue
	actionLogs  map[string]*retention.ActionLogEntry
	options     map[string]string
	triggers    map[string]*retention.Trigger
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: make(map[string]*retention.Submission),
		fieldValues: make(map[string]*retention.FieldValue),
		actionLogs:  make(map[string]*retention.ActionLogEntry),
		options:     make(map[string]string),
		triggers:    make(map[string]*retention.Trigger),
	}
}

// DeleteExpired deletes eligible submissions and their children. The
// eligible id set is computed once before any mutation, mirroring the
// snapshot semantics of the SQLite backend.
func (s *MemoryStore) DeleteExpired(ctx context.Context, cutoff time.Time) (retention.PurgeCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts retention.PurgeCounts

	eligible := make(map[string]bool)
	for id, sub := range s.submissions {
		if sub.CreatedAt.Before(cutoff) {
			eligible[id] = true
		}
	}

	for id, entry := range s.actionLogs {
		if eligible[entry.SubmissionID] {
			delete(s.actionLogs, id)
			counts.ActionLogs++
		}
	}
	for id, fv := range s.fieldValues {
		if eligible[fv.SubmissionID] {
			delete(s.fieldValues, id)
			counts.FieldValues++
		}
	}
	for id := range eligible {
		delete(s.submissions, id)
		counts.Submissions++
	}

	return counts, nil
}

// CountExpired reports what DeleteExpired would remove.
func (s *MemoryStore) CountExpired(ctx context.Context, cutoff time.Time) (retention.PurgeCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts retention.PurgeCounts

	eligible := make(map[string]bool)
	for id, sub := range s.submissions {
		if sub.CreatedAt.Before(cutoff) {
			eligible[id] = true
			counts.Submissions++
		}
	}
	for _, entry := range s.actionLogs {
		if eligible[entry.SubmissionID] {
			counts.ActionLogs++
		}
	}
	for _, fv := range s.fieldValues {
		if eligible[fv.SubmissionID] {
			counts.FieldValues++
		}
	}

	return counts, nil
}

// InsertSubmission stores a submission.
func (s *MemoryStore) InsertSubmission(ctx context.Context, sub *retention.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

// AddFieldValue stores one field value row.
func (s *MemoryStore) AddFieldValue(ctx context.Context, fv *retention.FieldValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fv.ID == "" {
		fv.ID = uuid.New().String()
	}
	cp := *fv
	s.fieldValues[fv.ID] = &cp
	return nil
}

// AppendActionLog stores one action log row.
func (s *MemoryStore) AppendActionLog(ctx context.Context, entry *retention.ActionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	cp := *entry
	s.actionLogs[entry.ID] = &cp
	return nil
}

// GetSubmission fetches a submission by id.
func (s *MemoryStore) GetSubmission(ctx context.Context, id string) (*retention.Submission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, false, nil
	}
	cp := *sub
	return &cp, true, nil
}

// ListFieldValues returns the field values of one submission.
func (s *MemoryStore) ListFieldValues(ctx context.Context, submissionID string) ([]*retention.FieldValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*retention.FieldValue
	for _, fv := range s.fieldValues {
		if fv.SubmissionID == submissionID {
			cp := *fv
			result = append(result, &cp)
		}
	}
	return result, nil
}

// ListActionLogs returns the action log of one submission.
func (s *MemoryStore) ListActionLogs(ctx context.Context, submissionID string) ([]*retention.ActionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*retention.ActionLogEntry
	for _, entry := range s.actionLogs {
		if entry.SubmissionID == submissionID {
			cp := *entry
			result = append(result, &cp)
		}
	}
	return result, nil
}

// GetOption reads a named option.
func (s *MemoryStore) GetOption(ctx context.Context, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.options[name]
	return value, ok, nil
}

// SetOption writes a named option.
func (s *MemoryStore) SetOption(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options[name] = value
	return nil
}

// RegisterTrigger stores a trigger, replacing a pending one of the same name.
func (s *MemoryStore) RegisterTrigger(ctx context.Context, trig *retention.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *trig
	s.triggers[trig.Name] = &cp
	return nil
}

// PendingTrigger reads the pending trigger of the given name.
func (s *MemoryStore) PendingTrigger(ctx context.Context, name string) (*retention.Trigger, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trig, ok := s.triggers[name]
	if !ok {
		return nil, false, nil
	}
	cp := *trig
	return &cp, true, nil
}

// CancelTrigger removes the pending trigger.
func (s *MemoryStore) CancelTrigger(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.triggers, name)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
