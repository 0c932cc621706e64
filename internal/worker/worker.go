package worker

import (
	"context"
)

// Worker - фоновый потребитель, управляемый WorkerManager
type Worker interface {
	// Start блокирует до остановки воркера
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру завершиться; повторный вызов безопасен
	Stop() error

	Name() string
}
