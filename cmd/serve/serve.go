package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/culturalatlas/heritage-go/internal/conf"
	"github.com/culturalatlas/heritage-go/internal/content"
	"github.com/culturalatlas/heritage-go/internal/contentcache"
	"github.com/culturalatlas/heritage-go/internal/datastore"
	"github.com/culturalatlas/heritage-go/internal/httpcontroller"
	"github.com/culturalatlas/heritage-go/internal/imageurl"
	"github.com/culturalatlas/heritage-go/internal/logging"
	"github.com/culturalatlas/heritage-go/internal/observability"
	"github.com/culturalatlas/heritage-go/internal/translation"
)

// Command creates the command that runs the HTTP content service.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the localized content HTTP service",
		Long:  "Start the HTTP server that resolves and caches localized city, heritage and image content.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().BoolVar(&settings.WebServer.Debug, "webdebug", viper.GetBool("webserver.debug"), "Enable web server debug output")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

func runServer(settings *conf.Settings) error {
	logger := logging.ForService("serve")

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("Failed to close datastore", "error", err)
		}
	}()

	imageResolver, err := imageurl.NewResolver(&settings.Images)
	if err != nil {
		return fmt.Errorf("failed to build image resolver: %w", err)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to build metrics: %w", err)
	}

	translations := translation.NewStore(ds, settings)
	resolver := content.NewResolver(ds, translations, imageResolver, settings)
	cache := contentcache.New(&settings.Cache, metrics.ContentCache)

	server := httpcontroller.New(settings, ds, resolver, cache, translations, metrics)
	server.Start()

	logger.Info("Server started",
		"port", settings.WebServer.Port,
		"default_language", settings.Languages.Default,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down", "signal", sig.String())
	return server.Shutdown()
}
