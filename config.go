package lottery

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 生产环境配置结构
type Config struct {
	// 游戏格式
	Game *GameConfig `mapstructure:"game"`

	// 生成器配置
	Generator *GeneratorConfig `mapstructure:"generator"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// 指标配置
	Metrics *MetricsConfig `mapstructure:"metrics"`

	// 日志配置
	Log *LogConfig `mapstructure:"log"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Game == nil || c.Generator == nil {
		return ErrConfigInvalid.Clone().WithDetails("game and generator sections are required")
	}
	if err := c.Game.Validate(); err != nil {
		return err
	}
	if err := c.Generator.Validate(); err != nil {
		return err
	}

	if cb := c.CircuitBreaker; cb != nil && cb.Enabled {
		if cb.FailureRatio <= 0 || cb.FailureRatio > 1 {
			return ErrConfigInvalid.Clone().WithDetails("circuit breaker failure ratio must be in (0, 1]")
		}
		if cb.Timeout < 0 || cb.Interval < 0 {
			return ErrConfigInvalid.Clone().WithDetails("circuit breaker durations cannot be negative")
		}
	}

	return nil
}

// GeneratorConfig 生成器配置
type GeneratorConfig struct {
	MaxAttemptsPerLine int    `mapstructure:"max_attempts_per_line"`
	Strategy           string `mapstructure:"strategy"`
	FailFast           bool   `mapstructure:"fail_fast"`

	// Seed makes generation reproducible; 0 selects the crypto-backed generator
	Seed uint64 `mapstructure:"seed"`
}

// Validate 验证生成器配置
func (gc *GeneratorConfig) Validate() error {
	if gc.MaxAttemptsPerLine <= 0 || gc.MaxAttemptsPerLine > MaxAttemptsPerLineLimit {
		return ErrInvalidAttempts.Clone().
			WithDetails(fmt.Sprintf("%d not in 1-%d", gc.MaxAttemptsPerLine, MaxAttemptsPerLineLimit))
	}
	if _, err := ParseStrategy(gc.Strategy); err != nil {
		return err
	}
	return nil
}

// DefaultGeneratorConfig returns the default generator configuration
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		MaxAttemptsPerLine: DefaultMaxAttemptsPerLine,
		Strategy:           string(StrategyAuto),
		FailFast:           true,
	}
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the Set For Life game with default generator, breaker, metrics and log settings
func DefaultConfig() *Config {
	game := SetForLife()
	return &Config{
		Game:           &game,
		Generator:      DefaultGeneratorConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Metrics:        &MetricsConfig{Enabled: DefaultMetricsEnabled, Namespace: DefaultMetricsNamespace},
		Log:            &LogConfig{Level: DefaultLogLevel},
	}
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	logger Logger

	mu     sync.RWMutex
	config *Config
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lottogen")
	v.AddConfigPath("$HOME/.lottogen")

	// 设置环境变量前缀
	v.SetEnvPrefix("LOTTOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{
		viper:  v,
		logger: &DefaultLogger{},
	}
}

// SetConfigFile 使用指定的配置文件, 替代默认搜索路径
func (cm *ConfigManager) SetConfigFile(path string) {
	if path != "" {
		cm.viper.SetConfigFile(path)
	}
}

// SetLogger 设置配置热更新时使用的日志器
func (cm *ConfigManager) SetLogger(logger Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

// Viper 返回底层 viper 实例, 用于绑定命令行参数
func (cm *ConfigManager) Viper() *viper.Viper { return cm.viper }

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 设置默认值
	cm.setDefaults()

	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认配置
	}

	config, err := cm.decode()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

// decode 解析并验证当前 viper 中的配置
func (cm *ConfigManager) decode() (*Config, error) {
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	// 游戏格式默认配置 (Set For Life)
	cm.viper.SetDefault("game.name", "set-for-life")
	cm.viper.SetDefault("game.main_range.min", SetForLifeMainMin)
	cm.viper.SetDefault("game.main_range.max", SetForLifeMainMax)
	cm.viper.SetDefault("game.main_count", SetForLifeMainCount)
	cm.viper.SetDefault("game.life_ball_range.min", SetForLifeLifeBallMin)
	cm.viper.SetDefault("game.life_ball_range.max", SetForLifeLifeBallMax)
	cm.viper.SetDefault("game.bands.low_max", SetForLifeLowMax)
	cm.viper.SetDefault("game.bands.mid_max", SetForLifeMidMax)

	// 生成器默认配置
	cm.viper.SetDefault("generator.max_attempts_per_line", DefaultMaxAttemptsPerLine)
	cm.viper.SetDefault("generator.strategy", string(StrategyAuto))
	cm.viper.SetDefault("generator.fail_fast", true)
	cm.viper.SetDefault("generator.seed", 0)

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", DefaultCircuitBreakerOnStateChange)

	// 指标与日志默认配置
	cm.viper.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	cm.viper.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	cm.viper.SetDefault("log.level", DefaultLogLevel)
}

// WatchConfig 监听配置变化
func (cm *ConfigManager) WatchConfig(callback func(*Config)) {
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config, err := cm.decode()
		if err != nil {
			// 记录错误但不中断服务, 保留旧配置
			cm.logger.Error("Ignoring config change from %s: %v", e.Name, err)
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()

		cm.logger.Info("Config reloaded from %s", e.Name)
		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.config
}

// NewDefaultConfigManager 创建默认配置的管理器, 不读取任何文件
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.setDefaults()
	cm.config = DefaultConfig()
	return cm
}

// NewConfigManagerFromConfig 从已有配置创建配置管理器
func NewConfigManagerFromConfig(config *Config) (*ConfigManager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm := NewConfigManager()
	cm.config = config
	return cm, nil
}
