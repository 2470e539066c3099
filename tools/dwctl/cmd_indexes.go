package main

import (
	"context"
	"fmt"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/repository"
	"github.com/dogworld/backend/services"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// dwctl indexes
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create all indexes and align identifier counters with existing data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, done, err := bootDB(cmd)
		if err != nil {
			return err
		}
		defer done()

		fmt.Println("Creating indexes…")
		if err := database.EnsureIndexes(ctx, database.DB); err != nil {
			return err
		}
		return alignCounters(ctx, database.DB)
	},
}

// alignCounters raises every counter to the size of its collection so
// counters introduced on an existing data set never hand out taken numbers.
// Each counter is named after the collection it numbers.
func alignCounters(ctx context.Context, db *mongo.Database) error {
	counters := repository.NewMongoCounterRepository(db)
	for _, f := range services.AllIDFormats {
		n, err := db.Collection(f.Counter).CountDocuments(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("count %s: %w", f.Counter, err)
		}
		if err := counters.EnsureAtLeast(ctx, f.Counter, n); err != nil {
			return err
		}
		fmt.Printf("  %-16s >= %d\n", f.Counter, n)
	}
	return nil
}
