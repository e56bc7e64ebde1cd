package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BOOKS_API_URL", "PAGE_SIZE", "FETCH_RETRIES", "SEARCH_DEBOUNCE", "SESSION_TTL"} {
		// t.Setenv restores the original value once the test ends
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, Port())
	assert.Equal(t, DefaultBooksURL, BooksURL())
	assert.Equal(t, 10, PageSize())
	assert.Equal(t, 0, FetchRetries())
	assert.Equal(t, 500*time.Millisecond, SearchDebounce())
	assert.Equal(t, 30*time.Minute, SessionTTL())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("SEARCH_DEBOUNCE", "1s")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "yaml")
	require.NoError(t, LoadConfig())

	assert.Equal(t, 25, PageSize())
	assert.Equal(t, time.Second, SearchDebounce())
	assert.Equal(t, zerolog.WarnLevel, LogLevel())
	// unknown formats fall back to json
	assert.Equal(t, "json", LogFormat())
}

func TestPageSizeFloor(t *testing.T) {
	SetPageSize(0)
	assert.Equal(t, 1, PageSize())
	SetPageSize(10)
}
