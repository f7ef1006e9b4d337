package cmd

import (
	"sync"

	"experience-market/internal/data/repository"
	"experience-market/internal/usecase"
	"experience-market/internal/wire"
	"experience-market/internal/worker"
	"experience-market/pkg/database"
	"experience-market/pkg/identity"
	"experience-market/pkg/mailer"
	"experience-market/pkg/payment"
	"experience-market/pkg/queue"
	"experience-market/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var port string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the role sync worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap("api")
			if err != nil {
				return err
			}
			defer logger.Sync()

			if port != "" {
				config.App.Port = port
			}

			return runServe(config, logger, migrate)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")

	return cmd
}

func runServe(config *utils.Config, logger *zap.Logger, migrate bool) error {
	ctx, stop := signalContext()
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("Schema applied")
	}

	rdb := database.InitRedis(config.Redis)
	if rdb == nil {
		logger.Warn("Redis unreachable, rate limiting disabled", zap.String("addr", config.Redis.Addr))
	} else {
		defer rdb.Close()
	}

	ext := usecase.Externals{
		Payments: payment.NewStripeGateway(config.Stripe, logger),
		Roles:    identity.NewClient(config.Identity),
		Mailer:   mailer.NewSMTPMailer(config.Email, logger),
	}
	if config.Broker.Enabled {
		publisher := queue.NewPublisher(config.Broker, logger)
		defer publisher.Close()
		ext.Publisher = publisher
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, ext, rdb, config, logger)

	var wg sync.WaitGroup
	roleSync := worker.NewRoleSyncWorker(app.Service.User, config.RoleSync.Interval, config.RoleSync.BatchSize, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		roleSync.Start(ctx)
	}()

	err = APIServer(ctx, app.Router, config.App.Port, logger)

	stop()
	wg.Wait()
	logger.Info("Application stopped")

	return err
}
