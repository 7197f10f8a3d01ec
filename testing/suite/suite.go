package suite

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120
	startTimeout = 120 * time.Second

	redisImage = "redis"
	redisTag   = "alpine"
	redisPort  = "6379/tcp"
)

// Suite hands a test a clean Redis instance running in a throwaway container.
// Host and Port address the container for code that dials Redis itself.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
	Host    string
	Port    string
}

// New starts Redis for t and tears it down when t ends. The test is skipped
// when no docker daemon answers.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool := dockerPool(t)
	resource := startRedis(t, pool)

	addr := resource.GetHostPort(redisPort)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("unexpected redis address %q: %v", addr, err)
	}

	client := connect(ctx, t, pool, resource, addr)

	return ctx, &Suite{
		T:       t,
		Logger:  slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		Storage: client,
		Host:    host,
		Port:    port,
	}
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct docker pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	pool.MaxWait = startTimeout

	return pool
}

func startRedis(t *testing.T, pool *dockertest.Pool) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}

	// docker kills the container even if the cleanup below never runs
	_ = resource.Expire(containerTTL)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not remove redis container: %v", err)
		}
	})

	return resource
}

// connect waits until Redis accepts commands and returns a client on an empty database.
func connect(ctx context.Context, t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource, addr string) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	if err := pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("redis in %s never became ready: %v", resource.Container.Name, err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return client
}
