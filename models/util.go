package models

import (
	"fmt"
	"sync"
	"time"
)

// Snowflake generates 64-bit time-ordered ids: 41 bits of milliseconds since
// 2024-01-01, 10 bits of node id, 12 bits of sequence.
type Snowflake struct {
	mu     sync.Mutex
	epoch  int64
	nodeID int64
	lastMs int64
	seq    int64
}

func NewSnowflake(nodeID int64) *Snowflake {
	return &Snowflake{epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), nodeID: nodeID & 0x3FF}
}

func (s *Snowflake) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UnixMilli()
	if now == s.lastMs {
		s.seq = (s.seq + 1) & 0xFFF
		if s.seq == 0 {
			for now <= s.lastMs {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastMs = now
	ts := (now - s.epoch) & ((1 << 41) - 1)
	return (ts << (10 + 12)) | (s.nodeID << 12) | s.seq
}

var idGen = NewSnowflake(1)

// NewID returns a time-ordered identifier as 16 zero-padded hex digits, so
// ids sort lexically in generation order. Used for journal entries.
func NewID() string {
	return fmt.Sprintf("%016x", uint64(idGen.Next()))
}
