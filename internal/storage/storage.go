package storage

import "tickpool/internal/model"

// Storage defines a sink for pool events.
type Storage interface {
	PutEventBatch(events []model.PoolEvent) error
}
