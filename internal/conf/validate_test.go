package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings builds a settings struct that passes validation, for tests
// to break one field at a time.
func validSettings() *Settings {
	s := &Settings{}
	s.Database.SQLite.Enabled = true
	s.Database.SQLite.Path = "heritage.db"
	s.Languages.Default = "en"
	s.Images.BaseURL = "https://cdn.heritage-atlas.org"
	s.Images.PlaceholderURL = "https://cdn.heritage-atlas.org/images/placeholder.jpg"
	s.Cache.StaleTime = StaleTimes{
		Cities:    5 * time.Minute,
		Heritage:  10 * time.Minute,
		Languages: 60 * time.Minute,
		Images:    30 * time.Minute,
	}
	s.Cache.ResolveTimeout = ResolveTimeouts{
		Cities:    5 * time.Second,
		Heritage:  5 * time.Second,
		Languages: 5 * time.Second,
		Images:    10 * time.Second,
	}
	s.Cache.Retry = RetrySettings{Attempts: 2, Backoff: 250 * time.Millisecond}
	return s
}

func TestValidateSettingsAccepts(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"nil settings handled separately", nil},
		{"both backends enabled", func(s *Settings) { s.Database.MySQL.Enabled = true }},
		{"no backend enabled", func(s *Settings) { s.Database.SQLite.Enabled = false }},
		{"sqlite without path", func(s *Settings) { s.Database.SQLite.Path = "" }},
		{"unsupported default language", func(s *Settings) { s.Languages.Default = "fr" }},
		{"relative base URL", func(s *Settings) { s.Images.BaseURL = "/images" }},
		{"non-http placeholder", func(s *Settings) { s.Images.PlaceholderURL = "ftp://cdn/placeholder.jpg" }},
		{"zero staleness", func(s *Settings) { s.Cache.StaleTime.Cities = 0 }},
		{"negative resolve timeout", func(s *Settings) { s.Cache.ResolveTimeout.Images = -time.Second }},
		{"negative retry attempts", func(s *Settings) { s.Cache.Retry.Attempts = -1 }},
		{"negative retry backoff", func(s *Settings) { s.Cache.Retry.Backoff = -time.Millisecond }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.mutate == nil {
				assert.Error(t, ValidateSettings(nil))
				return
			}
			s := validSettings()
			tt.mutate(s)
			assert.Error(t, ValidateSettings(s))
		})
	}
}

func TestStaleTimeFor(t *testing.T) {
	t.Parallel()

	s := validSettings()
	assert.Equal(t, 5*time.Minute, s.Cache.StaleTimeFor("cities"))
	assert.Equal(t, 10*time.Minute, s.Cache.StaleTimeFor("heritage"))
	assert.Equal(t, 60*time.Minute, s.Cache.StaleTimeFor("languages"))
	assert.Equal(t, 30*time.Minute, s.Cache.StaleTimeFor("images"))
}

func TestResolveTimeoutFor(t *testing.T) {
	t.Parallel()

	s := validSettings()
	assert.Equal(t, 5*time.Second, s.Cache.ResolveTimeoutFor("cities"))
	assert.Equal(t, 10*time.Second, s.Cache.ResolveTimeoutFor("images"))
}
