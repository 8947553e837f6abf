package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	lottery "github.com/kydenul/lottogen"
)

// options 命令行参数中与配置无关的部分
type options struct {
	lines        int
	odd          string
	even         string
	low          string
	mid          string
	high         string
	distribution string
	format       string
	configFile   string
	stats        bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lottogen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cm := lottery.NewConfigManager()
	opts := &options{}

	flags := newFlagSet(opts)
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// 命令行参数优先于配置文件与环境变量
	v := cm.Viper()
	for key, name := range map[string]string{
		"generator.max_attempts_per_line": "max-attempts",
		"generator.strategy":              "strategy",
		"generator.fail_fast":             "fail-fast",
		"generator.seed":                  "seed",
		"log.level":                       "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	cm.SetConfigFile(opts.configFile)
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	criteria, err := opts.criteria()
	if err != nil {
		return err
	}

	logger := lottery.NewDefaultLogger(config.Log.Level)
	cm.SetLogger(logger)
	generator := lottery.NewGeneratorWithConfigAndLogger(cm, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := generator.Generate(ctx, criteria)
	if result == nil {
		return err
	}

	if werr := writeResult(stdout, opts.format, result); werr != nil {
		return werr
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(stderr, "warning: %s\n", d)
	}
	if opts.stats {
		writeStats(stderr, generator.PerformanceMetrics(), result)
	}
	return err
}

func newFlagSet(opts *options) *pflag.FlagSet {
	defaults := lottery.DefaultGeneratorConfig()

	flags := pflag.NewFlagSet("lottogen", pflag.ContinueOnError)
	flags.IntVarP(&opts.lines, "lines", "n", lottery.DefaultLines, "number of lines to generate")
	flags.StringVar(&opts.odd, "odd", "any", "exact count of odd main numbers, or any")
	flags.StringVar(&opts.even, "even", "any", "exact count of even main numbers, or any")
	flags.StringVar(&opts.low, "low", "any", "exact count of low band numbers, or any")
	flags.StringVar(&opts.mid, "mid", "any", "exact count of mid band numbers, or any")
	flags.StringVar(&opts.high, "high", "any", "exact count of high band numbers, or any")
	flags.StringVarP(&opts.distribution, "distribution", "d", "any", "any, low, mid, high or balanced")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json or yaml")
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search ./config.yaml, /etc/lottogen, ~/.lottogen)")
	flags.BoolVar(&opts.stats, "stats", false, "print generation statistics to stderr")

	flags.Int("max-attempts", defaults.MaxAttemptsPerLine, "retry budget per line")
	flags.String("strategy", defaults.Strategy, "candidate strategy: auto, rejection or banded")
	flags.Bool("fail-fast", defaults.FailFast, "reject unsatisfiable criteria up front")
	flags.Uint64("seed", defaults.Seed, "seed for reproducible output (0 uses crypto/rand)")
	flags.String("log-level", lottery.DefaultLogLevel, "debug, info, warn or error")

	return flags
}

// criteria 解析命令行中的过滤条件
func (o *options) criteria() (lottery.Criteria, error) {
	criteria := lottery.DefaultCriteria()
	criteria.Lines = o.lines

	for _, f := range []struct {
		value  string
		target *lottery.Target
	}{
		{o.odd, &criteria.Odd},
		{o.even, &criteria.Even},
		{o.low, &criteria.Low},
		{o.mid, &criteria.Mid},
		{o.high, &criteria.High},
	} {
		t, err := lottery.ParseTarget(f.value)
		if err != nil {
			return lottery.Criteria{}, err
		}
		*f.target = t
	}

	distribution, err := lottery.ParseDistribution(o.distribution)
	if err != nil {
		return lottery.Criteria{}, err
	}
	criteria.Distribution = distribution

	return criteria, nil
}

func writeResult(w io.Writer, format string, result *lottery.GenerationResult) error {
	switch strings.ToLower(format) {
	case "", "text":
		for _, line := range result.Lines {
			if _, err := fmt.Fprintln(w, formatLine(line)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// formatLine 12 18 25 33 41 + 7 | 3 odd / 2 even | 1 low / 2 mid / 2 high
func formatLine(line lottery.ResultLine) string {
	numbers := make([]string, len(line.Main))
	for i, n := range line.Main {
		numbers[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("%s + %d | %s", strings.Join(numbers, " "), line.LifeBall, line.Stats)
}

func writeStats(w io.Writer, metrics lottery.PerformanceMetrics, result *lottery.GenerationResult) {
	fmt.Fprintf(w, "id: %s\n", result.ID)
	fmt.Fprintf(w, "strategy: %s\n", result.Strategy)
	fmt.Fprintf(w, "lines: %d/%d\n", result.Completed(), result.Requested)
	fmt.Fprintf(w, "attempts: %d (acceptance %.2f%%)\n", result.TotalAttempts, metrics.GetAcceptanceRate())
	fmt.Fprintf(w, "duration: %s\n", result.Duration)
}
