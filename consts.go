package lottery

import "time"

// Set For Life game format
const (
	// SetForLifeMainMin is the smallest main number
	SetForLifeMainMin = 1

	// SetForLifeMainMax is the largest main number
	SetForLifeMainMax = 47

	// SetForLifeMainCount is the number of main numbers drawn per line
	SetForLifeMainCount = 5

	// SetForLifeLifeBallMin is the smallest life ball number
	SetForLifeLifeBallMin = 1

	// SetForLifeLifeBallMax is the largest life ball number
	SetForLifeLifeBallMax = 10

	// SetForLifeLowMax is the upper bound of the low band (1-15)
	SetForLifeLowMax = 15

	// SetForLifeMidMax is the upper bound of the mid band (16-31); the high band is 32-47
	SetForLifeMidMax = 31
)

const (
	// DefaultMaxAttemptsPerLine is the retry budget for a single result line
	DefaultMaxAttemptsPerLine = 1000

	// MaxAttemptsPerLineLimit caps the configurable retry budget
	MaxAttemptsPerLineLimit = 1_000_000

	// DefaultLines is the number of lines generated when none is requested
	DefaultLines = 5

	// MajorityRatio scales the favor-low/mid/high threshold with the main count
	MajorityRatio = 0.6

	// BalancedMinimum is the minimum count per band for the balanced preference
	BalancedMinimum = 1

	// DefaultFastRandomGeneratorCacheSize is the number of floats buffered by SecureRandomGenerator
	DefaultFastRandomGeneratorCacheSize = 1024
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "lottogen-generator"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "lottogen"
	DefaultLogLevel         = "info"
)
