package utils

import (
	"fmt"
	"sync"
	"time"
)

const (
	// 2024-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	MaxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// Snowflake 生成报告 ID：时间戳 | 节点 | 序号。多实例共用一个库时靠 storage.node_id 区分。
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range [0,%d]: %d", MaxNodeID, nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

// MustSnowflake 启动期使用，配置错误直接 panic。
func MustSnowflake(nodeID int64) *Snowflake {
	s, err := NewSnowflake(nodeID)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts < s.lastTS {
		// 时钟回拨时不回退，保持单调递增。
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			ts = s.waitNextMillisecond(s.lastTS)
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

func (s *Snowflake) waitNextMillisecond(lastTS int64) int64 {
	ts := s.now()
	for ts <= lastTS {
		ts = s.now()
	}
	return ts
}

// Decompose 拆出 ID 的生成时间、节点与序号，排障用。
func Decompose(id int64) (at time.Time, node, seq int64) {
	at = time.UnixMilli((id >> timeShift) + snowflakeEpochMilli)
	node = (id >> nodeShift) & MaxNodeID
	seq = id & maxSeq
	return at, node, seq
}
