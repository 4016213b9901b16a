package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://applyjobs.spac.gov.jo", config.BaseURL)
	assert.Equal(t, "https://applyjobs.spac.gov.jo/", config.ListURL)
	assert.Equal(t, "data/jobs.json", config.OutputPath)
	assert.Equal(t, 10, config.MaxPages)
	assert.Equal(t, 3, config.FetchRetries)
	assert.Equal(t, 2*time.Second, config.RetryBackoff)
	assert.Equal(t, 500*time.Millisecond, config.PageDelay)
	assert.Equal(t, time.Duration(0), config.ScrapeInterval)
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, "govjobs", config.RedisStream)

	// Test with environment variables
	os.Setenv("JOBFEED_BASE_URL", "https://jobs.example.gov")
	os.Setenv("JOBFEED_OUTPUT", "/tmp/feed.json")
	os.Setenv("JOBFEED_MAX_PAGES", "3")
	os.Setenv("JOBFEED_FETCH_RETRIES", "5")
	os.Setenv("JOBFEED_SCRAPE_INTERVAL_SECONDS", "1800")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")

	config = LoadConfig()
	assert.Equal(t, "https://jobs.example.gov", config.BaseURL)
	assert.Equal(t, "https://jobs.example.gov/", config.ListURL)
	assert.Equal(t, "/tmp/feed.json", config.OutputPath)
	assert.Equal(t, 3, config.MaxPages)
	assert.Equal(t, 5, config.FetchRetries)
	assert.Equal(t, 30*time.Minute, config.ScrapeInterval)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)

	// Clean up
	os.Unsetenv("JOBFEED_BASE_URL")
	os.Unsetenv("JOBFEED_OUTPUT")
	os.Unsetenv("JOBFEED_MAX_PAGES")
	os.Unsetenv("JOBFEED_FETCH_RETRIES")
	os.Unsetenv("JOBFEED_SCRAPE_INTERVAL_SECONDS")
	os.Unsetenv("REDIS_ADDR")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.OutputPath = ""
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.MaxPages = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.ListURL = ""
	assert.Error(t, config.Validate())
}
