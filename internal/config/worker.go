package config

// LoadWorker reads worker.yaml and MODELREVIEWS_WORKER_* variables. The worker
// shares the api's postgres, redis, storage, queue and moderation sections.
func LoadWorker() (*AppConfig, error) {
	return load("worker", "MODELREVIEWS_WORKER")
}
