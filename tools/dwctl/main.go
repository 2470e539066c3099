package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	mongoURI string
	dbName   string
	timeout  time.Duration
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dwctl",
	Short: "Dog World operator CLI",
	Long:  "dwctl prepares a Dog World MongoDB database: indexes, identifier counters and sample data.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Initialize(os.Getenv("APP_ENV"))
	},
	SilenceUsage: true,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB URI")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", envOr("MONGO_DB_NAME", "dogworld"), "MongoDB database name")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")

	rootCmd.AddCommand(indexesCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootDB opens the connection and returns a context bounded by --timeout.
func bootDB(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	if err := database.ConnectWithConfig(mongoURI, dbName); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return ctx, func() {
		cancel()
		_ = database.Close()
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
