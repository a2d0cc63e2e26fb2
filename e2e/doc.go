//go:build e2e

// Package e2e provides end-to-end tests for the telemetry table widget.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - the teletab server as the application under test
//   - the scenario runner from pkg/harness
//
// Test isolation:
// Each test starts its own server on a random port and launches
// its own browser instance. Tests can run in parallel.
//
// Fixed wait durations in these tests are empirically chosen and may need
// tuning on slow CI hosts; wherever the awaited condition is observable
// the tests poll with WaitFor instead of sleeping.
package e2e
