package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthProbe checks one backing service.
type HealthProbe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth = HealthStatus{Healthy: true, Services: map[string]bool{}}
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	out := currentHealth
	out.Services = make(map[string]bool, len(currentHealth.Services))
	for k, v := range currentHealth.Services {
		out.Services[k] = v
	}
	return out
}

// RunHealthCheck pings every probe with a per-probe timeout and stores the result.
func RunHealthCheck(ctx context.Context, probes []HealthProbe) HealthStatus {
	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(probes))}
	for _, p := range probes {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		ok := p.Check(pctx) == nil
		cancel()
		status.Services[p.Name] = ok
		status.Healthy = status.Healthy && ok
	}
	status.CheckedAt = time.Now()

	healthMu.Lock()
	currentHealth = status
	healthMu.Unlock()
	return status
}

// RedisProbe pings a Redis client.
func RedisProbe(name string, client *redis.Client) HealthProbe {
	return HealthProbe{Name: name, Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// MongoProbe pings the primary of a Mongo deployment.
func MongoProbe(client *mongo.Client) HealthProbe {
	return HealthProbe{Name: "mongo", Check: func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}}
}
