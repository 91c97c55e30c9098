package main

import (
	"context"
	"encoding/json"
	"errors"

	settingsstore "github.com/dalemusser/guildhub/internal/app/store/settings"
	"github.com/dalemusser/guildhub/internal/app/system/guildconfig"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newSettingsCmd(opts *globalOpts) *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Inspect guild settings",
	}

	var guildID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings of a guild as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if guildID == "" {
				return errors.New("--guild is required")
			}
			return opts.withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
				s, err := settingsstore.New(db, guildconfig.Builtin()).Load(ctx, guildID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(s)
			})
		},
	}
	show.Flags().StringVar(&guildID, "guild", "", "Guild id")

	settings.AddCommand(show)
	return settings
}
