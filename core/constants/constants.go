package constants

import "time"

const (
	ContextTokenData = "token_data"

	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Database pool defaults.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// OAuthStateTTL bounds the Google consent round trip.
const OAuthStateTTL = 10 * time.Minute

// Redis keys.
const (
	RedisKeyEnergyPhase = "energy_phase:"
	EnergyPhaseCacheTTL = 10 * time.Minute
)

// Queue task types.
const (
	TaskTypeSlotReminder = "reminder:slot"
	QueueReminders       = "reminders"
)
