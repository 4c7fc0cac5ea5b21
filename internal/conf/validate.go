// conf/validate.go settings validation
package conf

import (
	"errors"
	"fmt"
	"regexp"
)

// absoluteURLPattern is the shape every configured image URL must match.
var absoluteURLPattern = regexp.MustCompile(`^https?://\S+$`)

// ValidateSettings checks the loaded settings for configuration errors.
// It returns an error describing the first problem found.
func ValidateSettings(settings *Settings) error {
	if settings == nil {
		return errors.New("settings is nil")
	}

	if err := validateDatabaseSettings(&settings.Database); err != nil {
		return err
	}
	if err := validateLanguageSettings(&settings.Languages); err != nil {
		return err
	}
	if err := validateImageSettings(&settings.Images); err != nil {
		return err
	}
	return validateCacheSettings(&settings.Cache)
}

func validateDatabaseSettings(db *DatabaseSettings) error {
	if db.SQLite.Enabled && db.MySQL.Enabled {
		return errors.New("only one database backend may be enabled")
	}
	if !db.SQLite.Enabled && !db.MySQL.Enabled {
		return errors.New("no database backend enabled")
	}
	if db.SQLite.Enabled && db.SQLite.Path == "" {
		return errors.New("sqlite enabled but path is empty")
	}
	return nil
}

func validateLanguageSettings(langs *LanguageSettings) error {
	if !IsSupportedLanguage(langs.Default) {
		return fmt.Errorf("default language %q is not a supported language", langs.Default)
	}
	return nil
}

func validateImageSettings(images *ImageSettings) error {
	if !absoluteURLPattern.MatchString(images.BaseURL) {
		return fmt.Errorf("images.baseurl %q is not an absolute http(s) URL", images.BaseURL)
	}
	if !absoluteURLPattern.MatchString(images.PlaceholderURL) {
		return fmt.Errorf("images.placeholderurl %q is not an absolute http(s) URL", images.PlaceholderURL)
	}
	return nil
}

func validateCacheSettings(cache *CacheSettings) error {
	staleTimes := map[string]int64{
		"cache.staletime.cities":    int64(cache.StaleTime.Cities),
		"cache.staletime.heritage":  int64(cache.StaleTime.Heritage),
		"cache.staletime.languages": int64(cache.StaleTime.Languages),
		"cache.staletime.images":    int64(cache.StaleTime.Images),
	}
	for key, value := range staleTimes {
		if value <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}

	timeouts := map[string]int64{
		"cache.resolvetimeout.cities":    int64(cache.ResolveTimeout.Cities),
		"cache.resolvetimeout.heritage":  int64(cache.ResolveTimeout.Heritage),
		"cache.resolvetimeout.languages": int64(cache.ResolveTimeout.Languages),
		"cache.resolvetimeout.images":    int64(cache.ResolveTimeout.Images),
	}
	for key, value := range timeouts {
		if value <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}

	if cache.Retry.Attempts < 0 {
		return errors.New("cache.retry.attempts must not be negative")
	}
	if cache.Retry.Backoff < 0 {
		return errors.New("cache.retry.backoff must not be negative")
	}
	return nil
}
