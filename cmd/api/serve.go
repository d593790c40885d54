package main

import (
	"context"
	"ecommerce-shop/internal/cart"
	"ecommerce-shop/internal/client"
	"ecommerce-shop/internal/config"
	"ecommerce-shop/internal/notify"
	"ecommerce-shop/internal/repository"
	"ecommerce-shop/internal/server"
	"ecommerce-shop/internal/service"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			return runServe(cmd.Context(), cfg, log, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run database migrations before serving")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		return err
	}
	if migrate {
		if err := client.Migrate(db); err != nil {
			return err
		}
	}

	carts, closeCarts, err := newCartStore(ctx, cfg.Cart)
	if err != nil {
		return err
	}
	// Runs after the server has shut down, so no handler still holds the store.
	defer func() {
		if err := closeCarts(); err != nil {
			log.Warn("close cart store", zap.Error(err))
		}
	}()
	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(log, cfg.Notify.Timeout)

	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	resetTokenRepo := repository.NewResetTokenRepository(db)

	reviewService := service.NewReviewService(reviewRepo, productRepo, orderRepo)
	srv := server.NewServer(cfg, log, dispatcher, server.Services{
		Catalog:  service.NewCatalogService(storeRepo, productRepo, reviewRepo, reviewService),
		Cart:     service.NewCartService(carts, productRepo),
		Checkout: service.NewCheckoutService(db, carts, userRepo, productRepo, orderRepo, notifier, dispatcher, log),
		Orders:   service.NewOrderService(orderRepo),
		Reviews:  reviewService,
		PasswordReset: service.NewPasswordResetService(db, userRepo, resetTokenRepo,
			notifier, dispatcher, cfg.BaseURL, cfg.Reset.TokenTTL),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server",
		zap.String("addr", serverAddr),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cart_driver", cfg.Cart.Driver),
		zap.String("notify_driver", cfg.Notify.Driver),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(serverAddr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		log.Info("signal received, starting graceful shutdown", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newCartStore also returns the function releasing the store's connections.
func newCartStore(ctx context.Context, cfg config.Cart) (cart.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return cart.NewMemoryStore(cfg.TTL), func() error { return nil }, nil
	case "redis":
		rdb, err := client.InitRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cart.NewRedisStore(rdb, cfg.TTL), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart driver %q", cfg.Driver)
	}
}

func newNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (notify.Notifier, error) {
	switch cfg.Notify.Driver {
	case "log":
		return notify.NewLogNotifier(log), nil
	case "smtp":
		sender, err := notify.NewSMTPSender(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		return notify.NewEmailNotifier(sender), nil
	case "sns":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notify.NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.SNS.TopicARN)
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}
}
