package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// globalOpts are the flags shared by every subcommand. Defaults come from
// the same GUILDHUB_* variables the server reads.
type globalOpts struct {
	mongoURI string
	database string
	verbose  bool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	root := &cobra.Command{
		Use:           "guildhubctl",
		Short:         "Operate a GuildHub database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.mongoURI, "mongo-uri", envOr("GUILDHUB_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	root.PersistentFlags().StringVar(&opts.database, "database", envOr("GUILDHUB_MONGO_DATABASE", "guildhub"), "MongoDB database name")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output")

	root.AddCommand(
		newSchemaCmd(opts),
		newQueueCmd(opts),
		newSettingsCmd(opts),
		newMetadataCmd(opts),
	)
	return root
}

func (o *globalOpts) logger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !o.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// withDB connects, runs fn against the configured database and disconnects.
func (o *globalOpts) withDB(ctx context.Context, fn func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error) error {
	logger := o.logger()
	defer func() { _ = logger.Sync() }()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(o.mongoURI).SetAppName("guildhubctl"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	logger.Debug("connected", zap.String("database", o.database))

	return fn(ctx, client.Database(o.database), logger)
}
