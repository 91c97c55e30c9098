package main

import (
	"context"
	"fmt"

	"github.com/dalemusser/guildhub/internal/app/system/indexes"
	"github.com/dalemusser/guildhub/internal/app/system/validators"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newSchemaCmd(opts *globalOpts) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage collections, validators and indexes",
	}
	schema.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create collections, apply validators and reconcile indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
				zap.ReplaceGlobals(logger)
				if err := validators.EnsureAll(ctx, db); err != nil {
					return fmt.Errorf("validators: %w", err)
				}
				if err := indexes.EnsureAll(ctx, db); err != nil {
					return fmt.Errorf("indexes: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema ensured on %s (%d collections)\n", db.Name(), len(indexes.Collections()))
				return nil
			})
		},
	})
	return schema
}
