package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
)

// Config represents the complete service configuration
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Audio      AudioConfig      `yaml:"audio"`
	Features   FeaturesConfig   `yaml:"features"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig contains HTTP API server configuration
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	Address         string `yaml:"address"`
	MaxUploadSizeMB int64  `yaml:"max_upload_size_mb"`
	RequestTimeout  int    `yaml:"request_timeout"` // seconds
}

// AudioConfig contains audio normalization parameters
type AudioConfig struct {
	TargetSampleRate int      `yaml:"target_sample_rate"`
	MaxDuration      float64  `yaml:"max_duration"` // seconds, 0 disables the guard
	AcceptedFormats  []string `yaml:"accepted_formats"`
}

// FeaturesConfig contains acoustic feature extraction parameters
type FeaturesConfig struct {
	PitchMinHz        float64 `yaml:"pitch_min_hz"`
	PitchMaxHz        float64 `yaml:"pitch_max_hz"`
	PitchFrameLength  int     `yaml:"pitch_frame_length"` // samples
	PitchHopLength    int     `yaml:"pitch_hop_length"`   // samples
	YinThreshold      float64 `yaml:"yin_threshold"`
	EnergyFrameLength int     `yaml:"energy_frame_length"` // samples
	EnergyHopLength   int     `yaml:"energy_hop_length"`   // samples
}

// ClassifierConfig contains deepfake classifier API configuration
type ClassifierConfig struct {
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	Timeout       int    `yaml:"timeout"` // seconds
	MaxRetries    int    `yaml:"max_retries"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Features.Validate(); err != nil {
		return fmt.Errorf("features config: %w", err)
	}

	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("classifier config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}

	if h.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if h.MaxUploadSizeMB < 1 {
		return fmt.Errorf("max_upload_size_mb must be at least 1, got %d", h.MaxUploadSizeMB)
	}

	if h.RequestTimeout < 1 {
		return fmt.Errorf("request_timeout must be at least 1 second, got %d", h.RequestTimeout)
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.TargetSampleRate != audio.TargetSampleRate {
		return fmt.Errorf("target_sample_rate must be %d Hz for the classifier contract, got %d",
			audio.TargetSampleRate, a.TargetSampleRate)
	}

	if a.MaxDuration < 0 {
		return fmt.Errorf("max_duration cannot be negative, got %f", a.MaxDuration)
	}

	if len(a.AcceptedFormats) == 0 {
		return fmt.Errorf("accepted_formats cannot be empty")
	}

	validFormats := map[string]bool{"wav": true, "mp3": true, "flac": true, "ogg": true, "m4a": true}
	for _, format := range a.AcceptedFormats {
		if !validFormats[format] {
			return fmt.Errorf("unsupported format '%s' in accepted_formats (supported: wav, mp3, flac, ogg, m4a)", format)
		}
	}

	return nil
}

// Validate validates feature extraction configuration
func (f *FeaturesConfig) Validate() error {
	if f.PitchMinHz <= 0 {
		return fmt.Errorf("pitch_min_hz must be positive, got %f", f.PitchMinHz)
	}

	if f.PitchMaxHz <= f.PitchMinHz {
		return fmt.Errorf("pitch_max_hz (%f) must be greater than pitch_min_hz (%f)", f.PitchMaxHz, f.PitchMinHz)
	}

	if f.PitchFrameLength < 256 || f.PitchFrameLength > 8192 {
		return fmt.Errorf("pitch_frame_length must be between 256 and 8192 samples, got %d", f.PitchFrameLength)
	}

	if f.PitchHopLength < 1 || f.PitchHopLength > f.PitchFrameLength {
		return fmt.Errorf("pitch_hop_length must be between 1 and pitch_frame_length, got %d", f.PitchHopLength)
	}

	if f.YinThreshold <= 0 || f.YinThreshold >= 1 {
		return fmt.Errorf("yin_threshold must be between 0 and 1 (exclusive), got %f", f.YinThreshold)
	}

	if f.EnergyFrameLength < 64 || f.EnergyFrameLength > 8192 {
		return fmt.Errorf("energy_frame_length must be between 64 and 8192 samples, got %d", f.EnergyFrameLength)
	}

	if f.EnergyHopLength < 1 || f.EnergyHopLength > f.EnergyFrameLength {
		return fmt.Errorf("energy_hop_length must be between 1 and energy_frame_length, got %d", f.EnergyHopLength)
	}

	return nil
}

// Validate validates classifier configuration
func (cl *ClassifierConfig) Validate() error {
	if cl.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	if cl.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", cl.Timeout)
	}

	if cl.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", cl.MaxRetries)
	}

	if cl.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", cl.MaxConcurrent)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetMaxUploadSizeBytes returns the upload size limit in bytes
func (h *HTTPConfig) GetMaxUploadSizeBytes() int64 {
	return h.MaxUploadSizeMB * 1024 * 1024
}

// GetRequestTimeoutDuration returns the request timeout as a time.Duration
func (h *HTTPConfig) GetRequestTimeoutDuration() time.Duration {
	return time.Duration(h.RequestTimeout) * time.Second
}

// GetTimeoutDuration returns the classifier timeout as a time.Duration
func (cl *ClassifierConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(cl.Timeout) * time.Second
}

