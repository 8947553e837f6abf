package lottery

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig 隔离 HOME 与工作目录, 避免读取到本机的配置文件
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// replaceConfigFile 原子替换配置文件, 避免监听到截断后的空文件
func replaceConfigFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	writeConfigFile(t, tmp, content)
	require.NoError(t, os.Rename(tmp, path))
}

func TestConfigManager_LoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:     "default_config",
			setupEnv: func(*testing.T) {},
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, SetForLife(), *config.Game)
				assert.Equal(t, DefaultMaxAttemptsPerLine, config.Generator.MaxAttemptsPerLine)
				assert.Equal(t, string(StrategyAuto), config.Generator.Strategy)
				assert.True(t, config.Generator.FailFast)
				assert.Zero(t, config.Generator.Seed)
				assert.Equal(t, 30*time.Second, config.CircuitBreaker.Timeout)
				assert.Equal(t, 60*time.Second, config.CircuitBreaker.Interval)
				assert.True(t, config.Metrics.Enabled)
				assert.Equal(t, "lottogen", config.Metrics.Namespace)
				assert.Equal(t, "info", config.Log.Level)
			},
		},
		{
			name: "environment_variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("LOTTOGEN_GENERATOR_MAX_ATTEMPTS_PER_LINE", "500")
				t.Setenv("LOTTOGEN_GENERATOR_STRATEGY", "banded")
				t.Setenv("LOTTOGEN_GENERATOR_FAIL_FAST", "false")
				t.Setenv("LOTTOGEN_GENERATOR_SEED", "42")
				t.Setenv("LOTTOGEN_CIRCUIT_BREAKER_TIMEOUT", "10s")
				t.Setenv("LOTTOGEN_LOG_LEVEL", "warn")
			},
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, 500, config.Generator.MaxAttemptsPerLine)
				assert.Equal(t, string(StrategyBanded), config.Generator.Strategy)
				assert.False(t, config.Generator.FailFast)
				assert.Equal(t, uint64(42), config.Generator.Seed)
				assert.Equal(t, 10*time.Second, config.CircuitBreaker.Timeout)
				assert.Equal(t, "warn", config.Log.Level)
			},
		},
		{
			name: "invalid_strategy",
			setupEnv: func(t *testing.T) {
				t.Setenv("LOTTOGEN_GENERATOR_STRATEGY", "greedy")
			},
			expectError: true,
		},
		{
			name: "invalid_attempts",
			setupEnv: func(t *testing.T) {
				t.Setenv("LOTTOGEN_GENERATOR_MAX_ATTEMPTS_PER_LINE", "0")
			},
			expectError: true,
		},
		{
			name: "game_range_too_small",
			setupEnv: func(t *testing.T) {
				t.Setenv("LOTTOGEN_GAME_MAIN_RANGE_MAX", "4")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			tt.setupEnv(t)

			// 创建配置管理器
			cm := NewConfigManager()

			// 加载配置
			config, err := cm.LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cm.GetConfig())
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			assert.Same(t, config, cm.GetConfig())

			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestConfigManager_ConfigFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "lottogen.yaml")
	writeConfigFile(t, path, `
game:
  name: small
  main_range: {min: 1, max: 9}
  main_count: 3
  life_ball_range: {min: 1, max: 2}
  bands: {low_max: 3, mid_max: 6}
generator:
  max_attempts_per_line: 250
  strategy: rejection
circuit_breaker:
  enabled: false
`)

	cm := NewConfigManager()
	cm.SetConfigFile(path)
	config, err := cm.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, smallGame(), *config.Game)
	assert.Equal(t, 250, config.Generator.MaxAttemptsPerLine)
	assert.Equal(t, string(StrategyRejection), config.Generator.Strategy)
	assert.True(t, config.Generator.FailFast, "unset keys keep their defaults")
	assert.False(t, config.CircuitBreaker.Enabled)

	t.Run("search_path", func(t *testing.T) {
		writeConfigFile(t, filepath.Join(dir, "config.yaml"), "generator:\n  max_attempts_per_line: 321\n")

		config, err := NewConfigManager().LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 321, config.Generator.MaxAttemptsPerLine)
	})

	t.Run("malformed_file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		writeConfigFile(t, bad, "generator: [unclosed\n")

		cm := NewConfigManager()
		cm.SetConfigFile(bad)
		_, err := cm.LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfigManager_WatchConfig(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, "generator:\n  max_attempts_per_line: 100\n")

	cm := NewConfigManager()
	cm.SetLogger(NewSilentLogger())
	cm.SetConfigFile(path)
	_, err := cm.LoadConfig()
	require.NoError(t, err)

	var reloaded atomic.Int32
	cm.WatchConfig(func(config *Config) {
		if config.Generator.MaxAttemptsPerLine == 200 {
			reloaded.Add(1)
		}
	})

	replaceConfigFile(t, path, "generator:\n  max_attempts_per_line: 200\n")
	require.Eventually(t, func() bool { return reloaded.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, 200, cm.GetConfig().Generator.MaxAttemptsPerLine)

	// 无效的变更被忽略, 保留旧配置
	replaceConfigFile(t, path, "generator:\n  max_attempts_per_line: -5\n")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 200, cm.GetConfig().Generator.MaxAttemptsPerLine)
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  bool
		errorMsg     string
	}{
		{
			name:         "valid_config",
			modifyConfig: func(*Config) {},
		},
		{
			name:         "missing_game",
			modifyConfig: func(config *Config) { config.Game = nil },
			expectError:  true,
			errorMsg:     "game and generator sections are required",
		},
		{
			name:         "invalid_attempts",
			modifyConfig: func(config *Config) { config.Generator.MaxAttemptsPerLine = MaxAttemptsPerLineLimit + 1 },
			expectError:  true,
			errorMsg:     "LOTTERY_2019",
		},
		{
			name:         "invalid_strategy",
			modifyConfig: func(config *Config) { config.Generator.Strategy = "greedy" },
			expectError:  true,
			errorMsg:     "LOTTERY_2018",
		},
		{
			name:         "invalid_game",
			modifyConfig: func(config *Config) { config.Game.MainCount = 0 },
			expectError:  true,
			errorMsg:     "LOTTERY_1004",
		},
		{
			name:         "invalid_failure_ratio",
			modifyConfig: func(config *Config) { config.CircuitBreaker.FailureRatio = 1.5 },
			expectError:  true,
			errorMsg:     "failure ratio",
		},
		{
			name: "disabled_breaker_is_not_checked",
			modifyConfig: func(config *Config) {
				config.CircuitBreaker.Enabled = false
				config.CircuitBreaker.FailureRatio = 0
			},
		},
		{
			name:         "negative_timeout",
			modifyConfig: func(config *Config) { config.CircuitBreaker.Timeout = -time.Second },
			expectError:  true,
			errorMsg:     "cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modifyConfig(config)

			err := config.Validate()
			if tt.expectError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewConfigManagerFromConfig(t *testing.T) {
	_, err := NewConfigManagerFromConfig(nil)
	assert.Error(t, err)

	bad := DefaultConfig()
	bad.Generator.MaxAttemptsPerLine = 0
	_, err = NewConfigManagerFromConfig(bad)
	assert.Error(t, err)

	config := DefaultConfig()
	cm, err := NewConfigManagerFromConfig(config)
	require.NoError(t, err)
	assert.Same(t, config, cm.GetConfig())
}

func TestNewDefaultConfigManager(t *testing.T) {
	cm := NewDefaultConfigManager()
	config := cm.GetConfig()

	require.NotNil(t, config)
	assert.NoError(t, config.Validate())
	assert.Equal(t, DefaultMaxAttemptsPerLine, cm.Viper().GetInt("generator.max_attempts_per_line"))
}

// 基准测试
func BenchmarkConfigManager_LoadConfig(b *testing.B) {
	cm := NewConfigManager()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := cm.LoadConfig()
		if err != nil {
			b.Fatalf("Failed to load config: %v", err)
		}
	}
}

func BenchmarkConfig_Validation(b *testing.B) {
	config := DefaultConfig()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := config.Validate(); err != nil {
			b.Fatalf("Config validation failed: %v", err)
		}
	}
}
