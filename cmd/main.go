package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"urbanstyle-registrar/extractor"
	"urbanstyle-registrar/internal/repository/mysql"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/orchestrator"
	"urbanstyle-registrar/pipeline"
	"urbanstyle-registrar/utils"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		shopFlag     = flag.String("shop", "", "Single shop to process (shuline, shubasic, girlsgoob, ddmshu)")
		allFlag      = flag.Bool("all", false, "Process every open shop once")
		watchFlag    = flag.Bool("watch", false, "Keep sweeping all open shops on the configured interval")
		requestDelay = flag.Duration("delay", 500*time.Millisecond, "Delay between image downloads")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *shopFlag == "" && !*allFlag && !*watchFlag {
		log.Fatal("One of -shop, -all or -watch is required")
	}
	if *shopFlag != "" && (*allFlag || *watchFlag) {
		log.Fatal("Cannot combine -shop with -all or -watch")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := types.DefaultConfig().FromEnv()
	config.RequestDelay = *requestDelay

	db, err := mysql.Open(config.MySQLDSN)
	if err != nil {
		logger.Fatalf("Database setup failed: %v", err)
	}

	shops := mysql.NewShopRepository(db)
	products := mysql.NewProductRepository(db)
	errorLogs := mysql.NewErrorLogRepository(db)

	images := utils.NewImageStore(config, logger)
	pipe := pipeline.New(products, images, logger)
	runner := extractor.NewRunner(config, pipe, errorLogs, logger)

	orch := orchestrator.New(shops, runner, logger,
		extractor.NewShuline(logger),
		extractor.NewShubasic(logger),
		extractor.NewGirlsgoob(logger),
		extractor.NewDdmshu(logger),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *shopFlag != "":
		if err := orch.RunOne(ctx, *shopFlag); err != nil {
			logger.Fatalf("Shop run failed: %v", err)
		}
	case *watchFlag:
		// Run one sweep immediately, then hand over to the scheduler.
		if err := orch.RunAll(ctx); err != nil {
			logger.Errorf("Initial sweep failed: %v", err)
		}
		orchestrator.NewScheduler(config.SweepInterval, orch, logger).Start(ctx)
	default:
		if err := orch.RunAll(ctx); err != nil {
			logger.Fatalf("Sweep failed: %v", err)
		}
	}
}
