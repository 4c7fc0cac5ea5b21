// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "heritage-go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "heritage.log")
	viper.SetDefault("main.log.maxsize", 100)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 28)

	viper.SetDefault("database.sqlite.enabled", true)
	viper.SetDefault("database.sqlite.path", "heritage.db")
	viper.SetDefault("database.mysql.enabled", false)
	viper.SetDefault("database.mysql.username", "heritage")
	viper.SetDefault("database.mysql.password", "secret")
	viper.SetDefault("database.mysql.database", "heritage")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")

	viper.SetDefault("languages.default", "en")

	viper.SetDefault("images.baseurl", "https://cdn.heritage-atlas.org")
	viper.SetDefault("images.placeholderurl", "https://cdn.heritage-atlas.org/images/placeholder.jpg")

	viper.SetDefault("cache.debug", false)
	viper.SetDefault("cache.staletime.cities", 5*time.Minute)
	viper.SetDefault("cache.staletime.heritage", 10*time.Minute)
	viper.SetDefault("cache.staletime.languages", 60*time.Minute)
	viper.SetDefault("cache.staletime.images", 30*time.Minute)
	viper.SetDefault("cache.resolvetimeout.cities", 5*time.Second)
	viper.SetDefault("cache.resolvetimeout.heritage", 5*time.Second)
	viper.SetDefault("cache.resolvetimeout.languages", 5*time.Second)
	viper.SetDefault("cache.resolvetimeout.images", 10*time.Second)
	viper.SetDefault("cache.retry.attempts", 2)
	viper.SetDefault("cache.retry.backoff", 250*time.Millisecond)

	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
}
