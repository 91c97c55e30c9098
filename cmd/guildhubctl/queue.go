package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	queuestore "github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// parseFamilies turns the --family flag into families. Blank or "all"
// selects every family with a main resource.
func parseFamilies(s string) ([]models.Family, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return models.Families(), nil
	}
	for _, f := range models.Families() {
		if string(f) == s {
			return []models.Family{f}, nil
		}
	}
	names := make([]string, 0, len(models.Families()))
	for _, f := range models.Families() {
		names = append(names, string(f))
	}
	return nil, fmt.Errorf("unknown family %q (want one of: all, %s)", s, strings.Join(names, ", "))
}

func newQueueCmd(opts *globalOpts) *cobra.Command {
	queue := &cobra.Command{
		Use:   "queue",
		Short: "Inspect bot command queues",
	}

	var (
		family string
		grace  time.Duration
		limit  int64
	)
	stale := &cobra.Command{
		Use:   "stale",
		Short: "List pending or running resources older than --grace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := parseFamilies(family)
			if err != nil {
				return err
			}
			return opts.withDB(cmd.Context(), func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
				p := queuestore.NewProducer(db, logger)
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "FAMILY\tGUILD\tID\tSTATUS\tUPDATED")
				total := 0
				for _, f := range families {
					refs, err := p.ScanStale(ctx, f, grace, limit)
					if err != nil {
						return fmt.Errorf("%s: %w", f, err)
					}
					for _, ref := range refs {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f, ref.GuildID, ref.ID.Hex(), ref.Status, ref.UpdatedAt.Format(time.RFC3339))
					}
					total += len(refs)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d stale\n", total)
				return nil
			})
		},
	}
	stale.Flags().StringVar(&family, "family", "all", "Command family (all, reaction-role, giveaway, scheduled-message, youtube)")
	stale.Flags().DurationVar(&grace, "grace", 15*time.Minute, "Only list resources not updated for this long")
	stale.Flags().Int64Var(&limit, "limit", 100, "Max rows per family (0 = no limit)")

	queue.AddCommand(stale)
	return queue
}
