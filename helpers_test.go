package lottery

import (
	"errors"
	"fmt"
	"sync"
)

// recordingLogger 记录所有日志, 用于断言
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
	errs  []string
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Debug(string, ...any) {}

func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

// failingRandomGenerator 总是返回错误的随机源
type failingRandomGenerator struct{}

var errEntropy = errors.New("entropy unavailable")

func (failingRandomGenerator) GenerateInRange(int, int) (int, error) { return 0, errEntropy }

// sequenceRandomGenerator 按顺序返回预设的值, 用尽后从头开始
type sequenceRandomGenerator struct {
	values []int
	next   int
}

func (g *sequenceRandomGenerator) GenerateInRange(min, max int) (int, error) {
	v := g.values[g.next%len(g.values)]
	g.next++
	if v < min || v > max {
		return 0, fmt.Errorf("scripted value %d outside %d-%d", v, min, max)
	}
	return v, nil
}

// newTestGenerator 创建使用固定种子与静默日志的生成器
func newTestGenerator(seed uint64) *Generator {
	g := NewGeneratorWithLogger(SetForLife(), NewSilentLogger())
	g.SetRandomGenerator(NewSeededRandomGenerator(seed))
	return g
}

// smallGame 便于穷举的小型游戏: 3 of 1-9, bands 1-3 / 4-6 / 7-9
func smallGame() GameConfig {
	return GameConfig{
		Name:          "small",
		MainRange:     Range{Min: 1, Max: 9},
		MainCount:     3,
		LifeBallRange: Range{Min: 1, Max: 2},
		Bands:         BandBoundaries{LowMax: 3, MidMax: 6},
	}
}
