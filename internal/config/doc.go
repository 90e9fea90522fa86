// Package config manages user-level settings stored at ~/.stackgen/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the port range the allocator draws candidate ports from.
package config
