// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediakit/renderd/cli/util/bootstrap"
	"github.com/mediakit/renderd/server/config"
	"github.com/mediakit/renderd/server/controller"
	"github.com/mediakit/renderd/server/listing"
	"github.com/mediakit/renderd/utils/logging"
)

var logger = logging.Logger("cli/serve")

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Run the renderd HTTP server",
	Long: `This command runs the rendition server: it serves previously generated
media derivatives from the object store, generating and persisting them
lazily on first access.

Configuration is environment-based with the RENDERD_ prefix, e.g.:

	RENDERD_LISTEN_ADDRESS=0.0.0.0:8080
	RENDERD_STORE_PROVIDER=localfs
	RENDERD_STORE_LOCALFS_DIR=/var/lib/renderd/store
	RENDERD_METADATA_SQLITE_PATH=/var/lib/renderd/metadata.db
	RENDERD_LISTING_ADDR=127.0.0.1:6379

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context())
	},
}

func runCommand(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	orchestrator, err := bootstrap.Orchestrator(cfg)
	if err != nil {
		return err
	}

	renditionCtrl := controller.NewRenditionController(orchestrator, cfg.CacheControl)

	var listingCtrl *controller.ListingController

	if cfg.Listing.Addr != "" {
		svc, err := listing.New(listing.Config(cfg.Listing))
		if err != nil {
			return fmt.Errorf("failed to create listing service: %w", err)
		}
		defer svc.Close()

		listingCtrl = controller.NewListingController(svc)
	} else {
		logger.Info("Listing collaborator not configured, listing routes disabled")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           controller.Router(renditionCtrl, listingCtrl),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("Serving", "address", cfg.ListenAddress, "store", cfg.Store.Provider)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}
