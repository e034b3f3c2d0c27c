package repository

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/okian/devbracket/pkg/metrics"
)

const defaultMaxReports = 64

// MemoryStore keeps reports in memory with FIFO eviction.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*list.Element
	byDigest   map[string]*list.Element
	order      *list.List // front is newest
	maxReports int
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:       make(map[string]*list.Element),
		byDigest:   make(map[string]*list.Element),
		order:      list.New(),
		maxReports: defaultMaxReports,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores rec, deduplicating by digest.
func (s *MemoryStore) Put(_ context.Context, rec Record) (Record, bool, error) {
	if rec.ID == "" || rec.Report == nil {
		return Record{}, false, fmt.Errorf("%w: id and report are required", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Digest != "" {
		if el, ok := s.byDigest[rec.Digest]; ok {
			return el.Value.(Record), true, nil
		}
	}
	if _, ok := s.byID[rec.ID]; ok {
		return Record{}, false, fmt.Errorf("%w: duplicate id %q", ErrInvalidRecord, rec.ID)
	}

	el := s.order.PushFront(rec)
	s.byID[rec.ID] = el
	if rec.Digest != "" {
		s.byDigest[rec.Digest] = el
	}
	for s.maxReports > 0 && s.order.Len() > s.maxReports {
		s.evict(s.order.Back())
	}
	metrics.UpdateReportsStored(s.order.Len())
	return rec, false, nil
}

func (s *MemoryStore) evict(el *list.Element) {
	rec := s.order.Remove(el).(Record)
	delete(s.byID, rec.ID)
	if rec.Digest != "" {
		delete(s.byDigest, rec.Digest)
	}
}

// Get returns the record with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return el.Value.(Record), nil
}

// Lookup returns the record built from the dataset digest.
func (s *MemoryStore) Lookup(_ context.Context, digest string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.byDigest[digest]
	if !ok {
		return Record{}, fmt.Errorf("%w: digest %s", ErrNotFound, digest)
	}
	return el.Value.(Record), nil
}

// List returns the stored records, newest first.
func (s *MemoryStore) List(_ context.Context) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(Record))
	}
	return out
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}
