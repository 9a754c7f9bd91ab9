// Package config loads the aedificium YAML configuration.
//
// Load starts from Default, overlays the file when a path is given, then the
// AEDIFICIUM_* environment variables, and validates the result. The loaded
// value converts into solve options, oracle client options and a slog logger.
package config
