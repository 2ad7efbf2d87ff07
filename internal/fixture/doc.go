// Package fixture is an in-memory world of revisions, repositories, owners
// packages and projects, loaded from YAML.
//
// A World implements differential.DataSource. It backs the CLI when no real
// persistence layer is wired in, and the scenario harness. Every loader call
// is counted so tests can check which lookups a field made.
package fixture
