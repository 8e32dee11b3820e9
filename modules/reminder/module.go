package reminder

import (
	"pairtime-api/core/queue"
	"pairtime-api/modules/reminder/service"
	"pairtime-api/modules/reminder/worker"

	"github.com/hibiken/asynq"
)

// Module owns the reminder queue client and worker.
type Module struct {
	Scheduler *service.Scheduler

	client *asynq.Client
	server *asynq.Server
}

// Init connects the asynq client and starts the worker that drains the
// reminder queue.
func Init(cfg queue.RedisConfig, concurrency int, slots worker.SlotLookup, notifier worker.Notifier) (*Module, error) {
	client := queue.NewClient(cfg)
	server := queue.NewServer(cfg, concurrency)

	mux := asynq.NewServeMux()
	worker.NewHandler(slots, notifier).Register(mux)

	if err := server.Start(mux); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Module{
		Scheduler: service.NewScheduler(client),
		client:    client,
		server:    server,
	}, nil
}

// Stop drains in-flight tasks and closes the queue connection.
func (m *Module) Stop() {
	m.server.Shutdown()
	_ = m.client.Close()
}
