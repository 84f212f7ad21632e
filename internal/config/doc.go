// Package config provides configuration loading and validation for the
// voice antispoofing analysis service. It handles YAML-based configuration
// with struct validation covering the HTTP surface, audio normalization,
// feature extraction and classifier API parameters.
package config
