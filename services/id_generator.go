package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dogworld/backend/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDFormat describes one human readable identifier family.
type IDFormat struct {
	Counter string
	Prefix  string
	Width   int
}

var (
	ProductIDs        = IDFormat{Counter: "products", Prefix: "PROD", Width: 4}
	AccessoryOrderIDs = IDFormat{Counter: "accessoryorders", Prefix: "ACC", Width: 4}
	DogIDs            = IDFormat{Counter: "dogs", Prefix: "DOG", Width: 4}
	BookingIDs        = IDFormat{Counter: "doctorbookings", Prefix: "BOOK-", Width: 5}
	PostIDs           = IDFormat{Counter: "dogposts", Prefix: "POST-", Width: 5}
	HealthRecordIDs   = IDFormat{Counter: "healthrecords", Prefix: "HR", Width: 4}
)

// AllIDFormats lists every family, for tooling that syncs counters.
var AllIDFormats = []IDFormat{ProductIDs, AccessoryOrderIDs, DogIDs, BookingIDs, PostIDs, HealthRecordIDs}

// Format renders seq with the family's prefix and zero padding.
func (f IDFormat) Format(seq int64) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, seq)
}

type IDGenerator interface {
	// Next never fails: if the counter store is unavailable it falls back to
	// a timestamp based identifier.
	Next(ctx context.Context, f IDFormat) string
}

type counterIDGenerator struct {
	counters repository.CounterRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewIDGenerator(counters repository.CounterRepository, logger *zap.Logger) IDGenerator {
	return &counterIDGenerator{counters: counters, logger: logger, now: time.Now}
}

func (g *counterIDGenerator) Next(ctx context.Context, f IDFormat) string {
	seq, err := g.counters.Next(ctx, f.Counter)
	if err == nil {
		return f.Format(seq)
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	id := fmt.Sprintf("%s%d%s", f.Prefix, g.now().UnixMilli(), suffix)
	g.logger.Warn("Counter unavailable, using timestamp identifier",
		zap.String("counter", f.Counter),
		zap.String("id", id),
		zap.Error(err),
	)
	return id
}
