// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - AgentBuilder: Fluent builder for creating test agents
//   - HubFixture: In-memory hub cluster seeded with image sets and agents
//
// Usage:
//
//	agent := testing.NewAgentBuilder("lab", "host-a").
//	    WithLocation("rack1").
//	    Build()
//
//	m := testing.NewHubFixture("lab").
//	    WithImageSets("img4.14.0").
//	    WithAgents(agent).
//	    Memory(t)
package testing
