package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "STORE_DRIVER", "REDIS_URL", "KAFKA_BROKERS", "CACHE_TTL_SEC", "TODO_API_URL"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPPort != "5000" {
		t.Fatalf("expected default port 5000, got %q", c.HTTPPort)
	}
	if c.StoreDriver != DriverMongo {
		t.Fatalf("expected mongo driver, got %q", c.StoreDriver)
	}
	if c.CacheEnabled() || c.EventsEnabled() {
		t.Fatalf("cache and events should be disabled without REDIS_URL/KAFKA_BROKERS")
	}
	if c.CacheTTL != 300 {
		t.Fatalf("expected ttl 300, got %d", c.CacheTTL)
	}
	if c.TodoAPIURL != "http://localhost:5000/api/todos" {
		t.Fatalf("unexpected client default %q", c.TodoAPIURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("CACHE_TTL_SEC", "notanumber")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	c := Load()
	if c.StoreDriver != DriverPostgres {
		t.Fatalf("expected postgres, got %q", c.StoreDriver)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[0] != "k1:9092" || c.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", c.KafkaBrokers)
	}
	if c.CacheTTL != 300 {
		t.Fatalf("invalid int should fall back to default, got %d", c.CacheTTL)
	}
	if !c.CacheEnabled() || !c.EventsEnabled() {
		t.Fatalf("cache and events should be enabled")
	}
}
