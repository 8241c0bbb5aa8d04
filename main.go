package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/startsnapfun/startsnap-backend/api"
	configpkg "github.com/startsnapfun/startsnap-backend/config"
	"github.com/startsnapfun/startsnap-backend/database"
	"github.com/startsnapfun/startsnap-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := configpkg.New()

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configpkg.GetString(c, "DB_HOST", "localhost"),
		configpkg.GetString(c, "DB_USER", "postgres"),
		configpkg.GetString(c, "DB_PASSWORD", ""),
		configpkg.GetString(c, "DB_NAME", "startsnap"),
		configpkg.GetString(c, "DB_PORT", "5432"),
		configpkg.GetString(c, "DB_SSLMODE", "disable"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// Activity feed: persistence plus the live fan-out hub
	feed := services.NewFeed(currentDB.ActivityRepo(), services.NewHub())

	images, err := services.NewS3ImageStore(context.Background(), c)
	if err != nil {
		fmt.Printf("Error initializing image store: %v\n", err)
		os.Exit(1)
	}

	sessions, err := services.NewSessions(currentDB.UserRepo(), currentDB.SessionRepo(), currentDB.ProfileRepo(), feed, c)
	if err != nil {
		fmt.Printf("Error initializing session manager: %v\n", err)
		os.Exit(1)
	}

	authoring := services.NewAuthoring(currentDB.ProjectRepo(), currentDB.VibeLogRepo(), feed, images)

	// The AI formatter is optional; without a key the endpoint reports
	// itself unconfigured.
	var formatter *services.Formatter
	if configpkg.GetString(c, "OPENAI_API_KEY", "") != "" {
		formatter, err = services.NewFormatter(c)
		if err != nil {
			fmt.Printf("Warning: AI formatter disabled: %v\n", err)
		}
	}

	sweeper := services.NewSweeper(
		currentDB.SessionRepo(),
		configpkg.GetDuration(c, "SESSION_SWEEP_INTERVAL", 15*time.Minute),
		configpkg.GetDuration(c, "SESSION_SWEEP_TIMEOUT", 30*time.Second),
	)
	sweeper.Start()
	defer sweeper.Stop()

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, api.Dependencies{
		Sessions:  sessions,
		Authoring: authoring,
		Feed:      feed,
		Images:    images,
		Formatter: formatter,
	})
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
