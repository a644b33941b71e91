package api

import (
	"context"

	"github.com/neexbeast/cycling-advice/internal/advisor"
	"github.com/neexbeast/cycling-advice/internal/notify"
)

// AdvisoryService defines the advisory operations needed by handlers.
type AdvisoryService interface {
	Prepare(ctx context.Context) (*advisor.Advisory, error)
	Send(ctx context.Context, adv *advisor.Advisory) []notify.Delivery
}

// ForecastCache drops a cached forecast. Satisfied by cache.Cache.
type ForecastCache interface {
	Delete(ctx context.Context, lat, lon float64) error
}
