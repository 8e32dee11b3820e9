package queue

import (
	"pairtime-api/core/constants"

	"github.com/hibiken/asynq"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) connOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}

func NewClient(cfg RedisConfig) *asynq.Client {
	return asynq.NewClient(cfg.connOpt())
}

// NewServer builds the worker server that drains the reminder queue.
func NewServer(cfg RedisConfig, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(cfg.connOpt(), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			constants.QueueReminders: 1,
		},
	})
}
