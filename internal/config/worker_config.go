package config

import (
	"time"

	"github.com/spf13/viper"
)

// JobsConfig drives the API-side cron scheduler.
type JobsConfig struct {
	ArchiveRetention time.Duration
	CleanupSchedule  string
}

// WorkerConfig is read by cmd/worker. The worker shares redis, storage and
// events settings with the API.
type WorkerConfig struct {
	Group             string
	Consumer          string
	VisibilityTimeout time.Duration
	ClaimInterval     time.Duration
	LogLevel          string
}

func setWorkerDefaults(v *viper.Viper) {
	v.SetDefault("jobs.archiveretention", "2160h") // 90 days
	v.SetDefault("jobs.cleanupschedule", "@daily")

	v.SetDefault("worker.group", "quora-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.visibilitytimeout", "2m")
	v.SetDefault("worker.claiminterval", "10s")
	v.SetDefault("worker.loglevel", "info")
}
