package lottery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// errShortResult 标记行数不足的结果, 仅用于熔断器计数, 不会返回给调用方
var errShortResult = errors.New("generation result is short")

// GuardedGenerator 带熔断器的生成器.
// 连续出现重试预算耗尽 (结果行数不足) 或随机源错误时熔断, 之后的请求直接返回 ErrCircuitBreakerOpen.
// 参数与配置错误属于调用方问题, 不计入失败.
type GuardedGenerator struct {
	generator LineGenerator

	mu      sync.RWMutex // 保护 breaker, 重置时会整体替换
	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewGuardedGenerator 创建带熔断器的生成器
func NewGuardedGenerator(generator LineGenerator, config *CircuitBreakerConfig, logger Logger) *GuardedGenerator {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	g := &GuardedGenerator{
		generator: generator,
		logger:    logger,
		config:    config,
	}
	if config.Enabled {
		g.breaker = g.newBreaker()
	}
	// 如果熔断器未启用，作为透传的包装器
	return g
}

func (g *GuardedGenerator) newBreaker() *gobreaker.CircuitBreaker {
	config := g.config
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				g.logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// currentBreaker 返回当前熔断器实例, 未启用时为 nil
func (g *GuardedGenerator) currentBreaker() *gobreaker.CircuitBreaker {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.breaker
}

// isBreakerSuccess 调用方错误与取消不计为失败
func isBreakerSuccess(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, errShortResult), errors.Is(err, ErrRandomSource):
		return false
	default:
		return true
	}
}

// executeWithBreaker 使用熔断器执行生成
func (g *GuardedGenerator) executeWithBreaker(
	operation func() (*GenerationResult, error),
) (*GenerationResult, error) {
	breaker := g.currentBreaker()
	if breaker == nil {
		// 熔断器未启用，直接执行
		return operation()
	}

	out, err := breaker.Execute(func() (any, error) {
		result, err := operation()
		if err == nil && result != nil && !result.IsComplete() {
			return result, errShortResult
		}
		return result, err
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return nil, ErrCircuitBreakerOpen.Clone().WithDetails("circuit breaker is open, requests are being rejected")
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, ErrCircuitBreakerOpen.Clone().WithDetails("too many requests, circuit breaker is half-open")
	case errors.Is(err, errShortResult):
		err = nil
	}

	result, _ := out.(*GenerationResult)
	return result, err
}

// Generate 生成满足条件的号码行
func (g *GuardedGenerator) Generate(ctx context.Context, criteria Criteria) (*GenerationResult, error) {
	return g.executeWithBreaker(func() (*GenerationResult, error) {
		return g.generator.Generate(ctx, criteria)
	})
}

// GenerateWithProgress 生成满足条件的号码行, 每接受一行回调一次
func (g *GuardedGenerator) GenerateWithProgress(
	ctx context.Context, criteria Criteria, progress ProgressCallback,
) (*GenerationResult, error) {
	return g.executeWithBreaker(func() (*GenerationResult, error) {
		return g.generator.GenerateWithProgress(ctx, criteria, progress)
	})
}

// GetCircuitBreakerState 获取熔断器状态
func (g *GuardedGenerator) GetCircuitBreakerState() string {
	breaker := g.currentBreaker()
	if breaker == nil {
		return "disabled"
	}

	switch breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GetCircuitBreakerCounts 获取熔断器统计信息
func (g *GuardedGenerator) GetCircuitBreakerCounts() gobreaker.Counts {
	breaker := g.currentBreaker()
	if breaker == nil {
		return gobreaker.Counts{}
	}

	return breaker.Counts()
}

// ResetCircuitBreaker 重置熔断器 (重新创建熔断器实例)
func (g *GuardedGenerator) ResetCircuitBreaker() {
	g.mu.Lock()
	if g.breaker == nil {
		g.mu.Unlock()
		return
	}

	// gobreaker 没有 Reset 方法，重新创建一个实例
	g.breaker = g.newBreaker()
	g.mu.Unlock()
	g.logger.Info("Circuit breaker '%s' has been reset (recreated)", g.config.Name)
}

// HealthCheck 熔断器健康检查
func (g *GuardedGenerator) HealthCheck() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": g.config.Enabled,
	}

	if g.currentBreaker() == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := g.GetCircuitBreakerState()
	counts := g.GetCircuitBreakerCounts()

	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_successes"] = counts.ConsecutiveSuccesses
	result["consecutive_failures"] = counts.ConsecutiveFailures
	result["success_rate"], result["failure_rate"] = countRates(counts)

	// 健康状态判断
	healthy := true
	switch state {
	case "open":
		healthy = false
	case "half-open":
		// 半开状态下，如果连续失败次数过多，认为不健康
		healthy = counts.ConsecutiveFailures <= 2
	}
	result["healthy"] = healthy

	return result
}

// CollectMetrics 收集熔断器指标
func (g *GuardedGenerator) CollectMetrics() map[string]any {
	metrics := map[string]any{
		"circuit_breaker_enabled": g.config.Enabled,
		"timestamp":               time.Now().Unix(),
	}

	if g.currentBreaker() == nil {
		return metrics
	}

	state := g.GetCircuitBreakerState()
	counts := g.GetCircuitBreakerCounts()

	// 状态指标
	metrics["circuit_breaker_state"] = state
	metrics["circuit_breaker_state_numeric"] = stateToNumeric(state)

	// 计数指标
	metrics["circuit_breaker_requests_total"] = counts.Requests
	metrics["circuit_breaker_successes_total"] = counts.TotalSuccesses
	metrics["circuit_breaker_failures_total"] = counts.TotalFailures
	metrics["circuit_breaker_consecutive_failures"] = counts.ConsecutiveFailures
	metrics["circuit_breaker_success_rate"], metrics["circuit_breaker_failure_rate"] = countRates(counts)

	// 配置指标
	metrics["circuit_breaker_min_requests"] = g.config.MinRequests
	metrics["circuit_breaker_failure_ratio_threshold"] = g.config.FailureRatio
	metrics["circuit_breaker_timeout_seconds"] = g.config.Timeout.Seconds()

	return metrics
}

func countRates(counts gobreaker.Counts) (success, failure float64) {
	if counts.Requests == 0 {
		return 0.0, 0.0
	}
	return float64(counts.TotalSuccesses) / float64(counts.Requests),
		float64(counts.TotalFailures) / float64(counts.Requests)
}

// stateToNumeric 将状态转换为数值
func stateToNumeric(state string) int {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
