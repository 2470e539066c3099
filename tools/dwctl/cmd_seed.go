package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/dogworld/backend/pkg/logger"
	"github.com/dogworld/backend/repository"
	"github.com/dogworld/backend/services"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const samplePassword = "password123"

var resetBeforeSeed bool

// dwctl seed [--reset]
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a sample seller, user, dogs and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, done, err := bootDB(cmd)
		if err != nil {
			return err
		}
		defer done()

		if resetBeforeSeed {
			fmt.Println("Dropping marketplace collections…")
			for _, name := range []string{
				database.UsersCollection, database.DogsCollection, database.ProductsCollection,
				database.AdoptionOrdersCollection, database.AccessoryOrdersCollection, database.CountersCollection,
			} {
				if err := database.DB.Collection(name).Drop(ctx); err != nil {
					return fmt.Errorf("drop %s: %w", name, err)
				}
			}
		}
		if err := database.EnsureIndexes(ctx, database.DB); err != nil {
			return err
		}
		return seed(ctx)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&resetBeforeSeed, "reset", false, "drop existing marketplace data first")
}

func seed(ctx context.Context) error {
	users := repository.NewMongoUserRepository(database.DB)
	ids := services.NewIDGenerator(repository.NewMongoCounterRepository(database.DB), logger.Log)

	seller, err := ensureUser(ctx, users, "Sample Seller", "seller@dogworld.test", "9876543210", auth.RoleSeller)
	if err != nil {
		return err
	}
	if _, err := ensureUser(ctx, users, "Sample User", "user@dogworld.test", "9123456780", auth.RoleUser); err != nil {
		return err
	}

	dogs := repository.NewMongoDogRepository(database.DB)
	now := time.Now().UTC()
	for _, d := range []models.Dog{
		{Breed: "Labrador Retriever", Age: "2 years", Gender: "Male", Size: "Large", Color: "Golden", Price: 15000, Location: models.Location{City: "Pune", State: "Maharashtra"}},
		{Breed: "Beagle", Age: "1 year", Gender: "Female", Size: "Medium", Color: "Tricolor", Price: 12000, Location: models.Location{City: "Mumbai", State: "Maharashtra"}},
		{Breed: "Indie", Age: "6 months", Gender: "Male", Size: "Medium", Color: "Brown", Location: models.Location{City: "Bengaluru", State: "Karnataka"}},
	} {
		d.DogID = ids.Next(ctx, services.DogIDs)
		d.SellerID = seller.ID
		d.IsAvailable = true
		d.Vaccinated = "Yes"
		d.HealthStatus = "Healthy"
		d.CreatedAt = now
		if err := dogs.Create(ctx, &d); err != nil {
			return fmt.Errorf("seed dog %s: %w", d.Breed, err)
		}
		fmt.Printf("  dog     %s %s\n", d.DogID, d.Breed)
	}

	products := repository.NewMongoProductRepository(database.DB)
	for _, p := range []models.Product{
		{Name: "Rope Chew Toy", Category: "Toys", Brand: "PawPlay", Price: 249, Stock: 40},
		{Name: "Nylon Leash", Category: "Accessories", Brand: models.DefaultBrand, Price: 399, Stock: 25},
		{Name: "Grain-Free Kibble 3kg", Category: "Food", Brand: "Nutripup", Price: 1299.5, Stock: 15},
		{Name: "Orthopedic Bed", Category: "Bedding", Brand: "SnoozeWoof", Price: 2499, Stock: 5},
	} {
		p.ProductID = ids.Next(ctx, services.ProductIDs)
		p.Description = p.Name + " for everyday use"
		p.SellerID = seller.ID
		p.IsActive = true
		p.CreatedAt, p.UpdatedAt = now, now
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		fmt.Printf("  product %s %s\n", p.ProductID, p.Name)
	}

	fmt.Printf("Seeded. Sample accounts use password %q.\n", samplePassword)
	return nil
}

func ensureUser(ctx context.Context, users repository.UserRepository, name, email, contact, role string) (*models.User, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(samplePassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Contact:   contact,
		UserType:  role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	fmt.Printf("  %-7s %s\n", role, email)
	return u, nil
}
