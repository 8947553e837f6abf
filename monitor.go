package lottery

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics 性能指标收集器
type PerformanceMetrics struct {
	// 生成请求统计
	TotalRequests    int64 `json:"total_requests"`    // 总请求次数
	CompleteRequests int64 `json:"complete_requests"` // 产出全部行的请求
	ShortRequests    int64 `json:"short_requests"`    // 行数不足的请求
	RejectedRequests int64 `json:"rejected_requests"` // 返回错误的请求

	// 行统计
	LinesRequested int64 `json:"lines_requested"` // 请求的行数
	LinesGenerated int64 `json:"lines_generated"` // 成功生成的行数
	LinesExhausted int64 `json:"lines_exhausted"` // 重试预算耗尽的行数
	TotalAttempts  int64 `json:"total_attempts"`  // 总采样次数

	// 性能统计
	AverageGenerationTime int64 `json:"average_generation_time"` // 平均生成时间(纳秒)
	TotalGenerationTime   int64 `json:"total_generation_time"`   // 总生成时间(纳秒)

	// 时间戳
	StartTime      int64 `json:"start_time"`       // 开始时间
	LastUpdateTime int64 `json:"last_update_time"` // 最后更新时间
}

// GetSuccessRate 获取请求成功率 (产出全部行的请求占比)
func (pm *PerformanceMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&pm.TotalRequests)
	if total == 0 {
		return 0.0
	}
	complete := atomic.LoadInt64(&pm.CompleteRequests)
	return float64(complete) / float64(total) * 100.0
}

// GetAcceptanceRate 获取采样接受率 (生成行数 / 采样次数)
func (pm *PerformanceMetrics) GetAcceptanceRate() float64 {
	attempts := atomic.LoadInt64(&pm.TotalAttempts)
	if attempts == 0 {
		return 0.0
	}
	lines := atomic.LoadInt64(&pm.LinesGenerated)
	return float64(lines) / float64(attempts) * 100.0
}

// GetAverageGenerationTime 获取平均生成时间
func (pm *PerformanceMetrics) GetAverageGenerationTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&pm.AverageGenerationTime))
}

// GetThroughput 获取吞吐量(每秒生成行数)
func (pm *PerformanceMetrics) GetThroughput() float64 {
	startTime := atomic.LoadInt64(&pm.StartTime)
	lastUpdate := atomic.LoadInt64(&pm.LastUpdateTime)
	if startTime == 0 || lastUpdate <= startTime {
		return 0.0
	}

	duration := time.Duration(lastUpdate - startTime)
	lines := atomic.LoadInt64(&pm.LinesGenerated)

	return float64(lines) / duration.Seconds()
}

// Reset 重置性能指标
func (pm *PerformanceMetrics) Reset() {
	atomic.StoreInt64(&pm.TotalRequests, 0)
	atomic.StoreInt64(&pm.CompleteRequests, 0)
	atomic.StoreInt64(&pm.ShortRequests, 0)
	atomic.StoreInt64(&pm.RejectedRequests, 0)
	atomic.StoreInt64(&pm.LinesRequested, 0)
	atomic.StoreInt64(&pm.LinesGenerated, 0)
	atomic.StoreInt64(&pm.LinesExhausted, 0)
	atomic.StoreInt64(&pm.TotalAttempts, 0)
	atomic.StoreInt64(&pm.AverageGenerationTime, 0)
	atomic.StoreInt64(&pm.TotalGenerationTime, 0)
	atomic.StoreInt64(&pm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&pm.LastUpdateTime, time.Now().UnixNano())
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics *PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &PerformanceMetrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

// RecordGeneration 记录一次生成请求. result 可以为 nil (请求在生成前被拒绝)
func (pm *PerformanceMonitor) RecordGeneration(result *GenerationResult, err error, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.TotalRequests, 1)
	atomic.AddInt64(&pm.metrics.TotalGenerationTime, int64(duration))

	switch {
	case err != nil:
		atomic.AddInt64(&pm.metrics.RejectedRequests, 1)
	case result != nil && result.IsComplete():
		atomic.AddInt64(&pm.metrics.CompleteRequests, 1)
	default:
		atomic.AddInt64(&pm.metrics.ShortRequests, 1)
	}

	if result != nil {
		atomic.AddInt64(&pm.metrics.LinesRequested, int64(result.Requested))
		atomic.AddInt64(&pm.metrics.LinesGenerated, int64(len(result.Lines)))
		atomic.AddInt64(&pm.metrics.LinesExhausted, int64(len(result.Diagnostics)))
		atomic.AddInt64(&pm.metrics.TotalAttempts, int64(result.TotalAttempts))
	}

	// 更新平均生成时间
	total := atomic.LoadInt64(&pm.metrics.TotalRequests)
	totalTime := atomic.LoadInt64(&pm.metrics.TotalGenerationTime)
	atomic.StoreInt64(&pm.metrics.AverageGenerationTime, totalTime/total)

	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		TotalRequests:         atomic.LoadInt64(&pm.metrics.TotalRequests),
		CompleteRequests:      atomic.LoadInt64(&pm.metrics.CompleteRequests),
		ShortRequests:         atomic.LoadInt64(&pm.metrics.ShortRequests),
		RejectedRequests:      atomic.LoadInt64(&pm.metrics.RejectedRequests),
		LinesRequested:        atomic.LoadInt64(&pm.metrics.LinesRequested),
		LinesGenerated:        atomic.LoadInt64(&pm.metrics.LinesGenerated),
		LinesExhausted:        atomic.LoadInt64(&pm.metrics.LinesExhausted),
		TotalAttempts:         atomic.LoadInt64(&pm.metrics.TotalAttempts),
		AverageGenerationTime: atomic.LoadInt64(&pm.metrics.AverageGenerationTime),
		TotalGenerationTime:   atomic.LoadInt64(&pm.metrics.TotalGenerationTime),
		StartTime:             atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:        atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics 重置性能指标
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }
