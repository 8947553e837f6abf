package lottery

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem        ErrorCode = "LOTTERY_1000"
	ErrCodeConfigInvalid ErrorCode = "LOTTERY_1004"
	ErrCodeRandomSource  ErrorCode = "LOTTERY_1006"

	// 参数错误 (2000-2999)
	ErrCodeInvalidParameters   ErrorCode = "LOTTERY_2000"
	ErrCodeInvalidRange        ErrorCode = "LOTTERY_2001"
	ErrCodeInvalidCount        ErrorCode = "LOTTERY_2002"
	ErrCodeInvalidTarget       ErrorCode = "LOTTERY_2016"
	ErrCodeInvalidDistribution ErrorCode = "LOTTERY_2017"
	ErrCodeInvalidStrategy     ErrorCode = "LOTTERY_2018"
	ErrCodeInvalidAttempts     ErrorCode = "LOTTERY_2019"

	// 生成相关错误 (3000-3999)
	ErrCodeGenerationInterrupted ErrorCode = "LOTTERY_3100"
	ErrCodeRetryBudgetExhausted  ErrorCode = "LOTTERY_3101"

	// 熔断相关错误 (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "LOTTERY_5002"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
	SeverityInfo     ErrorSeverity = "info"
)

// LotteryError 增强的错误类型
type LotteryError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Severity   ErrorSeverity  `json:"severity"`
	Timestamp  time.Time      `json:"timestamp"`
	RequestID  string         `json:"request_id,omitempty"`
	Operation  string         `json:"operation,omitempty"`
	StackTrace string         `json:"stack_trace,omitempty"`
	Cause      error          `json:"-"`
	Retryable  bool           `json:"retryable"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *LotteryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *LotteryError) Unwrap() error {
	return e.Cause
}

// Is 实现 errors.Is 接口, 按错误代码比较
func (e *LotteryError) Is(target error) bool {
	if t, ok := target.(*LotteryError); ok {
		return e.Code == t.Code
	}
	return false
}

// Clone returns a copy that can be decorated without touching the original.
// Use it before calling the With* helpers on a predefined error.
func (e *LotteryError) Clone() *LotteryError {
	c := *e
	c.Timestamp = time.Now()
	if e.Metadata != nil {
		c.Metadata = maps.Clone(e.Metadata)
	}
	return &c
}

// WithCause 添加原因错误
func (e *LotteryError) WithCause(cause error) *LotteryError {
	e.Cause = cause
	return e
}

// WithDetails 添加详细信息
func (e *LotteryError) WithDetails(details string) *LotteryError {
	e.Details = details
	return e
}

// WithRequestID 添加请求ID
func (e *LotteryError) WithRequestID(requestID string) *LotteryError {
	e.RequestID = requestID
	return e
}

// WithOperation 添加操作信息
func (e *LotteryError) WithOperation(operation string) *LotteryError {
	e.Operation = operation
	return e
}

// WithMetadata 添加元数据
func (e *LotteryError) WithMetadata(key string, value any) *LotteryError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// WithStackTrace 添加堆栈跟踪
func (e *LotteryError) WithStackTrace() *LotteryError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	e.StackTrace = string(buf[:n])
	return e
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *LotteryError {
	err := &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
		Retryable: false,
	}
	return err.WithStackTrace()
}

// NewConfigurationError reports criteria or a game format that can never
// produce a valid line.
func NewConfigurationError(details string) *LotteryError {
	err := NewError(ErrCodeConfigInvalid, "configuration is invalid").WithDetails(details)
	err.Severity = SeverityHigh
	return err
}

// IsConfigurationError reports whether err (or anything it wraps) is a configuration error
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrSystemError   = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrConfigInvalid = NewError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrRandomSource  = NewRetryableError(ErrCodeRandomSource, "random source failure")

	// 参数错误
	ErrInvalidParameters   = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrInvalidRange        = NewError(ErrCodeInvalidRange, "invalid range: min must be less than or equal to max")
	ErrInvalidCount        = NewError(ErrCodeInvalidCount, "invalid count: must be greater than 0 and fit the range")
	ErrInvalidTarget       = NewError(ErrCodeInvalidTarget, "invalid target: must be 'any' or a non-negative integer")
	ErrInvalidDistribution = NewError(ErrCodeInvalidDistribution, "invalid distribution: must be any, low, mid, high or balanced")
	ErrInvalidStrategy     = NewError(ErrCodeInvalidStrategy, "invalid strategy: must be auto, rejection or banded")
	ErrInvalidAttempts     = NewError(ErrCodeInvalidAttempts, "invalid max attempts per line")

	// 生成相关错误
	ErrGenerationInterrupted = NewError(ErrCodeGenerationInterrupted, "generation interrupted")
	ErrRetryBudgetExhausted  = NewError(ErrCodeRetryBudgetExhausted, "retry budget exhausted")

	// 熔断相关错误
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")
)
