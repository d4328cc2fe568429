package loader

import (
	"sort"
	"sync"
	"time"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// GroupStore buffers records per key. Every operation is atomic.
type GroupStore struct {
	mu        sync.Mutex
	groups    map[string]*Group
	size      int
	batchSize int
	clock     clock.PassiveClock
}

func NewGroupStore(batchSize int, clk clock.PassiveClock) *GroupStore {
	return &GroupStore{
		groups:    map[string]*Group{},
		batchSize: batchSize,
		clock:     clk,
	}
}

// Append adds the record to the group of key, opening a new generation when absent.
// The returned bool reports whether the group reached the batch size.
func (s *GroupStore) Append(key string, record schema.Record) (Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	group, ok := s.groups[key]
	if !ok {
		group = &Group{
			ID:        uuid.New().String(),
			Key:       key,
			CreatedAt: now,
		}
		s.groups[key] = group
	}
	group.Members = append(group.Members, record)
	group.LastActivityAt = now
	s.size++
	s.updateGauges()

	return snapshot(group), len(group.Members) >= s.batchSize
}

// TakeForRelease removes and returns the group of key.
func (s *GroupStore) TakeForRelease(key string) (Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[key]
	if !ok {
		return Group{}, false
	}
	return s.remove(group), true
}

// TakeGeneration removes the group of key only while it is still generation id.
func (s *GroupStore) TakeGeneration(key, id string) (Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[key]
	if !ok || group.ID != id {
		return Group{}, false
	}
	return s.remove(group), true
}

// IdleKeysOlderThan lists, sorted, the keys without activity for at least d.
func (s *GroupStore) IdleKeysOlderThan(d time.Duration, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for key, group := range s.groups {
		if now.Sub(group.LastActivityAt) >= d {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// DrainAll empties the store and returns its groups oldest first.
func (s *GroupStore) DrainAll() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]Group, 0, len(s.groups))
	for _, group := range s.groups {
		groups = append(groups, *group)
	}
	s.groups = map[string]*Group{}
	s.size = 0
	s.updateGauges()

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].Key < groups[j].Key
		}
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups
}

func (s *GroupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// Size is the number of records buffered across all groups.
func (s *GroupStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *GroupStore) remove(group *Group) Group {
	delete(s.groups, group.Key)
	s.size -= len(group.Members)
	s.updateGauges()
	return *group
}

func (s *GroupStore) updateGauges() {
	utils.PrometheusGroupsOpen.Set(float64(len(s.groups)))
	utils.PrometheusRecordsBuffered.Set(float64(s.size))
}

func snapshot(group *Group) Group {
	out := *group
	out.Members = make([]schema.Record, len(group.Members))
	copy(out.Members, group.Members)
	return out
}
