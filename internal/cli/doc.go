// Package cli wires the attrgrid commands (eval, order and serve) to the
// app package. Flags, ATTRGRID_* environment variables and an optional
// config file are merged through viper, validated into an app.Config, and
// failures are mapped onto process exit codes.
package cli
