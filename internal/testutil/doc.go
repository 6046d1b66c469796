// Package testutil provides shared helpers for tests that run whole sheets
// through the application.
package testutil
