package lottery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces lottery lines that satisfy a set of criteria
type Generator struct {
	game    GameConfig
	config  *GeneratorConfig
	sampler *Sampler
	logger  Logger
	metrics *Metrics
	mu      sync.RWMutex // 保护 game, config, sampler 的并发访问

	performanceMonitor *PerformanceMonitor
}

// NewGenerator creates a generator for game with the default generator configuration
func NewGenerator(game GameConfig) *Generator {
	return NewGeneratorWithLogger(game, &DefaultLogger{})
}

// NewGeneratorWithLogger creates a generator for game with a custom logger
func NewGeneratorWithLogger(game GameConfig, logger Logger) *Generator {
	config := DefaultGeneratorConfig()

	return &Generator{
		game:    game,
		config:  config,
		sampler: newSamplerForSeed(config.Seed),
		logger:  logger,

		performanceMonitor: NewPerformanceMonitor(),
	}
}

// NewGeneratorWithConfig creates a generator from the configuration held by cm.
// The logger level follows the log section of the configuration.
func NewGeneratorWithConfig(cm *ConfigManager) *Generator {
	level := DefaultLogLevel
	if cfg := cm.GetConfig(); cfg != nil && cfg.Log != nil {
		level = cfg.Log.Level
	}
	return NewGeneratorWithConfigAndLogger(cm, NewDefaultLogger(level))
}

// NewGeneratorWithConfigAndLogger creates a generator from the configuration held by cm with a custom logger
func NewGeneratorWithConfigAndLogger(cm *ConfigManager, logger Logger) *Generator {
	cfg := cm.GetConfig()
	if cfg == nil {
		cfg = DefaultConfig()
	}

	game := SetForLife()
	if cfg.Game != nil {
		game = *cfg.Game
	}
	config := DefaultGeneratorConfig()
	if cfg.Generator != nil {
		c := *cfg.Generator
		config = &c
	}

	return &Generator{
		game:    game,
		config:  config,
		sampler: newSamplerForSeed(config.Seed),
		logger:  logger,

		performanceMonitor: NewPerformanceMonitor(),
	}
}

// newSamplerForSeed 非零种子使用可复现的 PCG 生成器, 否则使用加密随机源
func newSamplerForSeed(seed uint64) *Sampler {
	if seed != 0 {
		return NewSampler(NewSeededRandomGenerator(seed))
	}
	return NewSampler(nil)
}

// Game returns the game format the generator draws for
func (g *Generator) Game() GameConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.game
}

// GetConfig returns a copy of the current generator configuration
func (g *Generator) GetConfig() GeneratorConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return *g.config
}

// UpdateConfig replaces the game and generator sections at runtime
func (g *Generator) UpdateConfig(newConfig *Config) error {
	g.GetLogger().Debug("UpdateConfig called")

	if newConfig == nil {
		g.GetLogger().Error("UpdateConfig failed: nil configuration")
		return ErrInvalidParameters
	}

	if err := newConfig.Validate(); err != nil {
		g.GetLogger().Error("UpdateConfig validation failed: %v", err)
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	reseed := newConfig.Generator.Seed != g.config.Seed
	g.game = *newConfig.Game
	config := *newConfig.Generator
	g.config = &config
	if reseed {
		g.sampler = newSamplerForSeed(config.Seed)
	}

	g.logger.Info(
		"Configuration updated successfully: Game=%s, MaxAttemptsPerLine=%d, Strategy=%s, FailFast=%v",
		g.game.Name, g.config.MaxAttemptsPerLine, g.config.Strategy, g.config.FailFast)
	return nil
}

// SetMaxAttemptsPerLine updates the per-line retry budget at runtime
func (g *Generator) SetMaxAttemptsPerLine(attempts int) error {
	g.GetLogger().Debug("SetMaxAttemptsPerLine called with attempts=%d", attempts)

	if attempts <= 0 || attempts > MaxAttemptsPerLineLimit {
		g.GetLogger().Error("SetMaxAttemptsPerLine failed: invalid attempts %d (must be between 1 and %d)",
			attempts, MaxAttemptsPerLineLimit)
		return ErrInvalidAttempts
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.config.MaxAttemptsPerLine = attempts

	g.logger.Info("Max attempts per line updated to %d", attempts)
	return nil
}

// SetStrategy updates the candidate strategy at runtime
func (g *Generator) SetStrategy(strategy Strategy) error {
	g.GetLogger().Debug("SetStrategy called with strategy=%s", strategy)

	parsed, err := ParseStrategy(string(strategy))
	if err != nil {
		g.GetLogger().Error("SetStrategy failed: %v", err)
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.config.Strategy = string(parsed)

	g.logger.Info("Strategy updated to %s", parsed)
	return nil
}

// SetFailFast toggles up-front rejection of unsatisfiable criteria
func (g *Generator) SetFailFast(failFast bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.config.FailFast = failFast
	g.logger.Info("Fail fast set to %v", failFast)
}

// SetRandomGenerator replaces the random source used for sampling
func (g *Generator) SetRandomGenerator(generator RandomGenerator) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sampler = NewSampler(generator)
}

// SetLogger sets a custom logger for the generator
func (g *Generator) SetLogger(logger Logger) {
	if logger != nil {
		g.mu.Lock()
		g.logger = logger
		g.mu.Unlock()
	}
}

// GetLogger returns the current logger
func (g *Generator) GetLogger() Logger {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.logger
}

// SetMetrics attaches Prometheus collectors; nil detaches them
func (g *Generator) SetMetrics(metrics *Metrics) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.metrics = metrics
}

// Generate produces up to criteria.Lines lines satisfying criteria
func (g *Generator) Generate(ctx context.Context, criteria Criteria) (*GenerationResult, error) {
	return g.GenerateWithProgress(ctx, criteria, nil)
}

// GenerateWithProgress produces up to criteria.Lines lines satisfying criteria,
// calling progress after each accepted line.
//
// A line slot whose retry budget runs out is skipped and reported as a
// Diagnostic, so the result may hold fewer lines than requested (possibly
// none) with a nil error. Cancelling ctx stops generation between lines and
// returns the partial result together with ErrGenerationInterrupted.
//
// With fail fast on (the default) criteria that no line can satisfy, such as
// band targets of 2/2/2, are rejected up front with a configuration error.
// Only after SetFailFast(false) does every line exhaust its budget instead.
func (g *Generator) GenerateWithProgress(
	ctx context.Context, criteria Criteria, progress ProgressCallback,
) (*GenerationResult, error) {
	startTime := time.Now()

	result, err := g.generate(ctx, criteria, progress)

	duration := time.Since(startTime)
	if result != nil {
		result.Duration = duration
	}

	g.performanceMonitor.RecordGeneration(result, err, duration)
	g.mu.RLock()
	metrics := g.metrics
	g.mu.RUnlock()
	metrics.Observe(result, err, duration)

	return result, err
}

// generateSnapshot 一次生成请求使用的配置快照
type generateSnapshot struct {
	logger      Logger
	game        GameConfig
	sampler     *Sampler
	strategy    Strategy
	maxAttempts int
	failFast    bool
}

func (g *Generator) snapshot() (generateSnapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := generateSnapshot{
		logger:      g.logger,
		game:        g.game,
		sampler:     g.sampler,
		maxAttempts: g.config.MaxAttemptsPerLine,
		failFast:    g.config.FailFast,
	}

	strategy, err := ParseStrategy(g.config.Strategy)
	if err != nil {
		// 配置只能经校验后写入, 走到这里说明内部状态已损坏
		return snap, ErrSystemError.Clone().
			WithCause(err).
			WithOperation("Generate").
			WithStackTrace()
	}
	snap.strategy = strategy
	return snap, nil
}

func (g *Generator) generate(
	ctx context.Context, criteria Criteria, progress ProgressCallback,
) (*GenerationResult, error) {
	snap, err := g.snapshot()
	logger := snap.logger
	if err != nil {
		logger.Error("Generate failed: %v", err)
		return nil, err
	}

	logger.Debug("Generate called with lines=%d, odd=%s, even=%s, low=%s, mid=%s, high=%s, distribution=%s",
		criteria.Lines, criteria.Odd, criteria.Even, criteria.Low, criteria.Mid, criteria.High, criteria.Distribution)

	// Validate parameters
	if err := criteria.CheckShape(); err != nil {
		logger.Error("Generate validation failed: %v", err)
		return nil, err
	}
	if err := snap.game.Validate(); err != nil {
		logger.Error("Generate game validation failed: %v", err)
		return nil, err
	}
	if snap.maxAttempts <= 0 {
		logger.Error("Generate failed: invalid max attempts %d", snap.maxAttempts)
		return nil, ErrInvalidAttempts
	}
	if snap.failFast {
		if err := criteria.Satisfiable(snap.game); err != nil {
			logger.Error("Generate rejected unsatisfiable criteria: %v", err)
			return nil, err
		}
	}

	strategy := resolveStrategy(snap.strategy, snap.game, criteria)
	if snap.strategy == StrategyBanded && strategy != StrategyBanded {
		logger.Debug("Banded strategy needs consistent low/mid/high targets, falling back to rejection")
	}

	result := &GenerationResult{
		ID:        uuid.NewString(),
		Requested: criteria.Lines,
		Lines:     make([]ResultLine, 0, criteria.Lines),
		Strategy:  strategy,
	}

	for lineIndex := 1; lineIndex <= criteria.Lines; lineIndex++ {
		// Check for context cancellation before starting a new line
		select {
		case <-ctx.Done():
			logger.Info("Generate cancelled after %d lines, returning partial results", len(result.Lines))
			return result, ErrGenerationInterrupted.Clone().
				WithCause(ctx.Err()).
				WithRequestID(result.ID).
				WithOperation("Generate").
				WithMetadata("completed_lines", len(result.Lines))
		default:
		}

		line, attempts, ok, err := generateLine(snap.sampler, snap.game, criteria, strategy, snap.maxAttempts)
		result.TotalAttempts += attempts
		if err != nil {
			logger.Error("Generate aborted at line %d: %v", lineIndex, err)
			return result, tagRequest(err, result.ID, lineIndex)
		}

		if !ok {
			logger.Warn("Could not generate valid line %d after %d attempts", lineIndex, attempts)
			result.Diagnostics = append(result.Diagnostics, newDiagnostic(lineIndex, attempts))
			continue
		}

		result.Lines = append(result.Lines, line)
		logger.Debug("Line %d accepted after %d attempts: %s", lineIndex, attempts, line)

		// Trigger progress callback if provided
		if progress != nil {
			progress(len(result.Lines), result.Requested, line)
		}
	}

	if len(result.Diagnostics) > 0 {
		logger.Info("Generate completed with %d/%d lines, %d exhausted", len(result.Lines), result.Requested, len(result.Diagnostics))
	} else {
		logger.Info("Generate successful: id=%s, lines=%d, attempts=%d", result.ID, len(result.Lines), result.TotalAttempts)
	}
	return result, nil
}

// tagRequest 为本次请求产生的错误补充请求ID与操作信息
func tagRequest(err error, requestID string, lineIndex int) error {
	var lotteryErr *LotteryError
	if !errors.As(err, &lotteryErr) {
		return err
	}
	return lotteryErr.Clone().
		WithRequestID(requestID).
		WithOperation("Generate").
		WithMetadata("line_index", lineIndex)
}

// resolveStrategy picks the banded construction when every band target is set,
// sums to the main count and fits its band; otherwise rejection sampling.
func resolveStrategy(requested Strategy, game GameConfig, criteria Criteria) Strategy {
	if requested == StrategyRejection || !criteria.AllBandsSet() {
		return StrategyRejection
	}

	sum := 0
	for _, b := range Bands {
		t := criteria.BandTarget(b)
		if t.Value() < 0 || t.Value() > game.BandRange(b).Size() {
			return StrategyRejection
		}
		sum += t.Value()
	}
	if sum != game.MainCount {
		return StrategyRejection
	}
	return StrategyBanded
}

// generateLine samples candidates until one meets criteria or maxAttempts is spent.
// It returns the number of attempts used and whether a line was accepted.
func generateLine(
	sampler *Sampler, game GameConfig, criteria Criteria, strategy Strategy, maxAttempts int,
) (ResultLine, int, bool, error) {
	draw := drawRejection
	if strategy == StrategyBanded {
		draw = drawBanded
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		main, err := draw(sampler, game, criteria)
		if err != nil {
			return ResultLine{}, attempt, false, err
		}

		if !MeetsCriteria(ComputeStats(game, main), criteria, game.MainCount) {
			continue
		}

		lifeBall, err := sampler.RandomInt(game.LifeBallRange.Min, game.LifeBallRange.Max)
		if err != nil {
			return ResultLine{}, attempt, false, err
		}
		return newResultLine(game, main, lifeBall), attempt, true, nil
	}

	return ResultLine{}, maxAttempts, false, nil
}

// drawRejection 从整个主号码范围中不重复抽取
func drawRejection(sampler *Sampler, game GameConfig, _ Criteria) ([]int, error) {
	main, err := sampler.UniqueSample(game.MainCount, game.MainRange.Min, game.MainRange.Max)
	if err != nil {
		return nil, err
	}
	slices.Sort(main)
	return main, nil
}

// drawBanded 按各区间的目标数量分别抽取后合并
func drawBanded(sampler *Sampler, game GameConfig, criteria Criteria) ([]int, error) {
	main := make([]int, 0, game.MainCount)
	for _, b := range Bands {
		count := criteria.BandTarget(b).Value()
		if count == 0 {
			continue
		}
		r := game.BandRange(b)
		numbers, err := sampler.UniqueSample(count, r.Min, r.Max)
		if err != nil {
			var lotteryErr *LotteryError
			if errors.As(err, &lotteryErr) {
				return nil, lotteryErr.Clone().WithMetadata("band", b.String())
			}
			return nil, fmt.Errorf("band %s: %w", b, err)
		}
		main = append(main, numbers...)
	}
	slices.Sort(main)
	return main, nil
}

// PerformanceMetrics 获取性能指标
func (g *Generator) PerformanceMetrics() PerformanceMetrics {
	return g.performanceMonitor.GetMetrics()
}

// ResetPerformanceMetrics 重置性能指标
func (g *Generator) ResetPerformanceMetrics() {
	g.performanceMonitor.ResetMetrics()
}

// EnablePerformanceMonitoring 启用性能监控
func (g *Generator) EnablePerformanceMonitoring() {
	g.performanceMonitor.Enable()
}

// DisablePerformanceMonitoring 禁用性能监控
func (g *Generator) DisablePerformanceMonitoring() {
	g.performanceMonitor.Disable()
}
