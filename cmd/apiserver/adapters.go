package main

import (
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http/handlers"
)

// healthCheckers wires the readiness probe to every hard dependency.
// Kafka is deliberately absent: event publishing is best-effort and must not
// gate readiness.
func healthCheckers(conn *postgres.Connection, driver *neo4j.Driver, client *redis.Client) map[string]handlers.HealthChecker {
	return map[string]handlers.HealthChecker{
		"postgres": conn.HealthCheck,
		"neo4j":    driver.HealthCheck,
		"redis":    client.HealthCheck,
	}
}
