package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/phone"
)

const DefaultCapacity = 2000

// memoryMessageRepository is a bounded in-process ring: records keep their
// insertion order, an upsert replaces in place without consuming capacity,
// and inserting past the capacity evicts the single oldest record.
type memoryMessageRepository struct {
	mu       sync.RWMutex
	records  []*models.Message
	index    map[string]int
	capacity int
	nextSeq  int64
}

func newMemoryMessageRepository(capacity int) *memoryMessageRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &memoryMessageRepository{
		index:    make(map[string]int),
		capacity: capacity,
	}
}

func (r *memoryMessageRepository) Put(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pos, ok := r.index[msg.ID]; ok {
		clone := *msg
		clone.Seq = r.records[pos].Seq
		r.records[pos] = &clone
		return nil
	}

	clone := *msg
	r.nextSeq++
	clone.Seq = r.nextSeq
	r.records = append(r.records, &clone)
	r.index[clone.ID] = len(r.records) - 1

	if len(r.records) > r.capacity {
		evicted := r.records[0]
		r.records = r.records[1:]
		delete(r.index, evicted.ID)
		for id, pos := range r.index {
			r.index[id] = pos - 1
		}
	}

	return nil
}

func (r *memoryMessageRepository) ScanAll(_ context.Context, limit int) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Message, len(r.records))
	for i, m := range r.records {
		clone := *m
		out[i] = &clone
	}
	sortDescending(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryMessageRepository) ScanByParty(_ context.Context, p string) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := phone.Normalize(p)
	var out []*models.Message
	for _, m := range r.records {
		if m.Involves(key) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sortAscending(out)
	return out, nil
}

// Prune is a no-op for the memory backend: the ring is already bounded.
func (r *memoryMessageRepository) Prune(_ context.Context, _ int) (int, error) {
	return 0, nil
}

func sortAscending(msgs []*models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].At.Equal(msgs[j].At) {
			return msgs[i].Seq < msgs[j].Seq
		}
		return msgs[i].At.Before(msgs[j].At)
	})
}

func sortDescending(msgs []*models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].At.Equal(msgs[j].At) {
			return msgs[i].Seq > msgs[j].Seq
		}
		return msgs[i].At.After(msgs[j].At)
	})
}
