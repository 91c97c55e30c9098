package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	metadatastore "github.com/dalemusser/guildhub/internal/app/store/metadata"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// readGuild decodes a Discord guild object, including its channels and
// roles arrays.
func readGuild(path string) (*discordgo.Guild, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g discordgo.Guild
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &g, nil
}

func newMetadataCmd(opts *globalOpts) *cobra.Command {
	metadata := &cobra.Command{
		Use:   "metadata",
		Short: "Seed the channel and role cache",
	}

	var guildID, file string
	imp := &cobra.Command{
		Use:   "import",
		Short: "Publish channels and roles from a Discord guild JSON file",
		Long: "Publish channels and roles from a Discord guild JSON file.\n" +
			"The bot normally keeps this cache current; use this to seed a\n" +
			"development database or recover while the bot is down.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			g, err := readGuild(file)
			if err != nil {
				return err
			}
			if guildID == "" {
				guildID = g.ID
			}
			if guildID == "" {
				return errors.New("--guild is required when the file has no id")
			}
			if g.ID == "" {
				// FromDiscord drops the role whose id equals the guild id (@everyone).
				g.ID = guildID
			}
			channels, roles := metadatastore.FromDiscord(g)
			return opts.withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
				if err := metadatastore.New(db).Publish(ctx, guildID, channels, roles); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %d channels and %d roles for %s\n", len(channels), len(roles), guildID)
				return nil
			})
		},
	}
	imp.Flags().StringVar(&guildID, "guild", "", "Guild id (defaults to the id in the file)")
	imp.Flags().StringVar(&file, "file", "", "Path to the guild JSON")

	metadata.AddCommand(imp)
	return metadata
}
