package idgen

import (
	"sync"
	"time"
)

// SnowflakeIDGenerator 台账主键生成器
// ID格式: 毫秒时间偏移 * 100000 + 机器ID(2位) * 1000 + 序列号(3位)
// 同一实例内单调递增，多实例靠机器ID区分
type SnowflakeIDGenerator struct {
	mu        sync.Mutex
	epoch     int64 // 起始时间 (2024-01-01 00:00:00 UTC)，毫秒
	machineID int64 // 0-99
	sequence  int64 // 0-999
	lastTime  int64 // 上次生成ID的毫秒时间
	now       func() time.Time
}

const (
	maxMachineID = 99
	maxSequence  = 999
)

// NewSnowflakeIDGenerator 创建ID生成器，machineID 超出 0-99 时按 0 处理
func NewSnowflakeIDGenerator(machineID int64) *SnowflakeIDGenerator {
	if machineID < 0 || machineID > maxMachineID {
		machineID = 0
	}
	return &SnowflakeIDGenerator{
		epoch:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		machineID: machineID,
		now:       time.Now,
	}
}

// NextID 生成下一个ID
func (g *SnowflakeIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	if now < g.lastTime {
		// 时钟回拨：沿用上次时间继续递增序列号
		now = g.lastTime
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) % (maxSequence + 1)
		if g.sequence == 0 {
			// 序列号用尽，借用下一毫秒
			now = g.lastTime + 1
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return (now-g.epoch)*100000 + g.machineID*1000 + g.sequence
}
