package store

import "fmt"

// Open returns the backend named by driver: memory, sqlite or redis.
func Open(driver, dsn string, rc RedisConfig) (Store, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite", "":
		return OpenDB(dsn)
	case "redis":
		return NewRedis(rc)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
