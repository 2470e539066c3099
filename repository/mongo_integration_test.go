//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dogworld/backend/database"
	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start mongo container: %v", err)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s", host, port.Port())))
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Failed to disconnect: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	db := client.Database("dogworld_test")
	require.NoError(t, database.EnsureIndexes(ctx, db))
	return db
}

func TestIntegration_ReserveStockUnderContention(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	products := repository.NewMongoProductRepository(db)

	p := &models.Product{ProductID: "PROD0001", Name: "Leash", Price: 100, Stock: 10, IsActive: true}
	require.NoError(t, products.Create(ctx, p))

	const buyers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, short := 0, 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := products.ReserveStock(ctx, p.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrInsufficientStock):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, buyers-10, short)

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 10, got.SoldCount)

	require.NoError(t, products.ReleaseStock(ctx, p.ID, 3))
	got, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestIntegration_ReserveStockInactiveProduct(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	products := repository.NewMongoProductRepository(db)

	p := &models.Product{ProductID: "PROD0002", Name: "Bowl", Stock: 5, IsActive: true}
	require.NoError(t, products.Create(ctx, p))
	require.NoError(t, products.Deactivate(ctx, p.ID))

	_, err := products.ReserveStock(ctx, p.ID, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = products.ReserveStock(ctx, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIntegration_CounterIsGapFreeUnderConcurrency(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	counters := repository.NewMongoCounterRepository(db)

	const n = 50
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := counters.Next(ctx, "accessoryorders")
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			seen <- v
		}()
	}
	wg.Wait()
	close(seen)

	got := make(map[int64]bool)
	for v := range seen {
		assert.False(t, got[v], "duplicate sequence %d", v)
		got[v] = true
	}
	for i := int64(1); i <= n; i++ {
		assert.True(t, got[i], "missing sequence %d", i)
	}

	require.NoError(t, counters.EnsureAtLeast(ctx, "accessoryorders", 10))
	v, err := counters.Next(ctx, "accessoryorders")
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), v)
}

func TestIntegration_OneActiveAdoptionPerDog(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	adoptions := repository.NewMongoAdoptionRepository(db)
	dogID := primitive.NewObjectID()

	first := &models.AdoptionOrder{DogID: dogID, UserID: primitive.NewObjectID(), Status: models.AdoptionStatusPending}
	require.NoError(t, adoptions.Create(ctx, first))

	second := &models.AdoptionOrder{DogID: dogID, UserID: primitive.NewObjectID(), Status: models.AdoptionStatusPending}
	err := adoptions.Create(ctx, second)
	require.ErrorIs(t, err, repository.ErrDuplicate)
	assert.True(t, repository.ViolatesIndex(err, database.ActiveAdoptionIndex))

	_, err = adoptions.UpdateStatus(ctx, first.ID, models.AdoptionStatusPending, models.AdoptionStatusCancelled)
	require.NoError(t, err)

	third := &models.AdoptionOrder{DogID: dogID, UserID: primitive.NewObjectID(), Status: models.AdoptionStatusPending}
	assert.NoError(t, adoptions.Create(ctx, third))
}

func TestIntegration_BookingSlotIsExclusive(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	bookings := repository.NewMongoBookingRepository(db)
	day := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	first := &models.DoctorBooking{BookingID: "BOOK-00001", AppointmentDate: day, AppointmentTime: "09:00 AM", Status: models.BookingStatusScheduled}
	require.NoError(t, bookings.Create(ctx, first))

	clash := &models.DoctorBooking{BookingID: "BOOK-00002", AppointmentDate: day, AppointmentTime: "09:00 AM", Status: models.BookingStatusScheduled}
	err := bookings.Create(ctx, clash)
	assert.True(t, repository.ViolatesIndex(err, database.BookingSlotIndex))

	slots, err := bookings.BookedSlots(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM"}, slots)
}
