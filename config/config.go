package config

import (
	"os"
	"strconv"
	"time"

	"spacjobs/jobfeedworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Source site configuration
	BaseURL  string
	ListURL  string
	PageParam string

	// Scrape behavior
	OutputPath     string
	MaxPages       int
	FetchRetries   int
	RetryBackoff   time.Duration
	PageDelay      time.Duration
	ScrapeInterval time.Duration

	// Redis configuration (optional publisher, disabled when RedisAddr is empty)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (optional, in-memory cache when empty)
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	maxPages, _ := strconv.Atoi(getEnv("JOBFEED_MAX_PAGES", "10"))
	fetchRetries, _ := strconv.Atoi(getEnv("JOBFEED_FETCH_RETRIES", "3"))
	retryBackoff, _ := strconv.Atoi(getEnv("JOBFEED_RETRY_BACKOFF_SECONDS", "2"))
	pageDelay, _ := strconv.Atoi(getEnv("JOBFEED_PAGE_DELAY_MS", "500"))
	scrapeInterval, _ := strconv.Atoi(getEnv("JOBFEED_SCRAPE_INTERVAL_SECONDS", "0"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	baseURL := getEnv("JOBFEED_BASE_URL", "https://applyjobs.spac.gov.jo")

	return Config{
		BaseURL:              baseURL,
		ListURL:              getEnv("JOBFEED_LIST_URL", baseURL+"/"),
		PageParam:            getEnv("JOBFEED_PAGE_PARAM", "page"),
		OutputPath:           getEnv("JOBFEED_OUTPUT", "data/jobs.json"),
		MaxPages:             maxPages,
		FetchRetries:         fetchRetries,
		RetryBackoff:         time.Duration(retryBackoff) * time.Second,
		PageDelay:            time.Duration(pageDelay) * time.Millisecond,
		ScrapeInterval:       time.Duration(scrapeInterval) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "govjobs"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLength,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Environment:          getEnv("JOBFEED_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.ListURL == "" {
		return errors.NewConfiguration("list URL must not be empty", nil)
	}
	if c.OutputPath == "" {
		return errors.NewConfiguration("output path must not be empty", nil)
	}
	if c.MaxPages < 1 {
		return errors.NewConfiguration("max pages must be at least 1", nil)
	}
	if c.FetchRetries < 1 {
		return errors.NewConfiguration("fetch retries must be at least 1", nil)
	}
	if c.RedisStreamCount < 1 {
		return errors.NewConfiguration("redis stream count must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
