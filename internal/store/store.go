// Package store keeps per-conversation dialogue history in memory.
// History lives for the lifetime of the process only; restarts start fresh.
package store

import (
	"hash/fnv"
	"sync"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is a single utterance in a conversation. Turns are immutable once created.
type Turn struct {
	Speaker Speaker
	Text    string
}

const shardCount = 16

type shard struct {
	mu   sync.Mutex
	logs map[string][]Turn
}

// Store maps conversation ids to a bounded FIFO log of recent turns.
// Operations on distinct conversation ids never block each other; operations
// on the same id are serialized by the id's shard lock.
type Store struct {
	cap    int
	shards [shardCount]*shard
}

// New creates a store that keeps at most cap turns per conversation.
func New(cap int) *Store {
	if cap < 1 {
		cap = 1
	}
	s := &Store{cap: cap}
	for i := range s.shards {
		s.shards[i] = &shard{logs: make(map[string][]Turn)}
	}
	return s
}

func (s *Store) shardFor(conversationID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	return s.shards[h.Sum32()%shardCount]
}

// Append adds turn to the conversation's log, evicting the oldest turn first
// when the log would exceed the cap.
func (s *Store) Append(conversationID string, turn Turn) {
	sh := s.shardFor(conversationID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	log := sh.logs[conversationID]
	if len(log) >= s.cap {
		log = log[len(log)-s.cap+1:]
	}
	sh.logs[conversationID] = append(log, turn)
}

// Snapshot returns a copy of the conversation's log in chronological order.
// Unseen conversation ids yield an empty slice.
func (s *Store) Snapshot(conversationID string) []Turn {
	sh := s.shardFor(conversationID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	log := sh.logs[conversationID]
	out := make([]Turn, len(log))
	copy(out, log)
	return out
}
