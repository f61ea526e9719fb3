// Package config provides layered YAML configuration for the scanstream
// platform.
//
// Configuration is assembled in three passes: compiled-in defaults, then
// each file layer merged field by field (later layers win), then
// SCANSTREAM_* environment overrides. Duration fields accept Go duration
// strings, a day suffix ("14d"), or bare integers interpreted as
// milliseconds.
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/base.yaml")
//	loader.AddLayer("configs/site.yaml")
//	loader.EnableValidation(true)
//	cfg, err := loader.Load()
//
// SafeConfig wraps a Config for concurrent readers, handing out deep copies
// and validating replacements atomically.
//
// File access is defensive: config paths are checked for traversal, files
// are size-capped, and YAML nesting depth is bounded before decoding.
package config
