package conf

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/52Jolynn/bindb/data"
)

const (
	EnvPort       = "BINDB_PORT"
	EnvMode       = "BINDB_MODE"
	EnvData       = "BINDB_DATA"
	EnvLogLevel   = "BINDB_LOG_LEVEL"
	EnvMaxBulk    = "BINDB_MAX_BULK"
	EnvRetryAfter = "BINDB_RETRY_AFTER"
	EnvProbeBINs  = "BINDB_PROBE_BINS"
)

type Config struct {
	Port       int
	Mode       string
	DataPath   string
	LogLevel   logger.Level
	MaxBulk    int
	RetryAfter time.Duration
	ProbeBINs  []string
}

// Load reads .env files (missing ones are ignored), then the environment,
// then args. Later sources win.
func Load(args []string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load env file %s", f)
		}
	}
	return Parse(args, os.Getenv)
}

// Parse builds a Config from getenv defaults overridden by args.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	var (
		port       int
		maxBulk    int
		retryAfter time.Duration
		logLevel   string
		err        error
	)
	if port, err = envInt(getenv, EnvPort, data.DefaultPort); err != nil {
		return nil, err
	}
	if maxBulk, err = envInt(getenv, EnvMaxBulk, data.DefaultMaxBulk); err != nil {
		return nil, err
	}
	if retryAfter, err = envDuration(getenv, EnvRetryAfter, data.DefaultRetryAfter); err != nil {
		return nil, err
	}
	probeBINs := data.DefaultProbeBINs
	if v := getenv(EnvProbeBINs); v != "" {
		probeBINs = splitList(v)
	}

	cfg := &Config{}
	fs := pflag.NewFlagSet("bindb", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Port, "port", "p", port, "http port")
	fs.StringVarP(&cfg.Mode, "mode", "m", envString(getenv, EnvMode, data.DefaultMode), "run mode [dev|test|release]")
	fs.StringVarP(&cfg.DataPath, "data", "d", envString(getenv, EnvData, data.DefaultDataPath), "bin data csv file, or a directory holding it")
	fs.StringVar(&logLevel, "log-level", envString(getenv, EnvLogLevel, data.DefaultLogLevel), "log level [debug|info|warn|error]")
	fs.IntVar(&cfg.MaxBulk, "max-bulk", maxBulk, "max bins per bulk lookup")
	fs.DurationVar(&cfg.RetryAfter, "retry-after", retryAfter, "retry hint sent while bin data is loading")
	fs.StringSliceVar(&cfg.ProbeBINs, "probe-bins", probeBINs, "bins checked by /api/test")
	if err = fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}

	if cfg.LogLevel, err = logger.ParseLevel(logLevel); err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	switch c.Mode {
	case data.RunModeDev, data.RunModeTest, data.RunModeRelease:
	default:
		return errors.Errorf("invalid mode %q", c.Mode)
	}
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("data path is required")
	}
	if c.MaxBulk <= 0 {
		return errors.Errorf("max bulk must be positive, got %d", c.MaxBulk)
	}
	if c.RetryAfter < time.Second {
		return errors.Errorf("retry after must be at least 1s, got %s", c.RetryAfter)
	}
	return nil
}

// RetryAfterSeconds is the retry hint as whole seconds.
func (c *Config) RetryAfterSeconds() int {
	return int(c.RetryAfter / time.Second)
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s=%q", key, v)
	}
	return i, nil
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	//纯数字按秒处理
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s=%q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var result []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
