package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %v, want %v", cfg.RetryDelay, DefaultRetryDelay)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, DefaultUserAgent)
	}
	if len(cfg.Weights) != 7 {
		t.Errorf("Weights has %d entries, want 7", len(cfg.Weights))
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	t.Parallel()

	sum := 0.0
	for _, w := range DefaultWeights() {
		sum += w
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("weights sum = %v, want 1.0", sum)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"https://example.com"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "no target",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: ErrInvalidMaxRetries,
		},
		{
			name:    "negative retry delay",
			mutate:  func(c *Config) { c.RetryDelay = -time.Second },
			wantErr: ErrInvalidRetryDelay,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "report file with multiple targets",
			mutate: func(c *Config) {
				c.Targets = []string{"https://example.com", "https://example.org"}
				c.ReportFile = "report.json"
			},
			wantErr: ErrReportFileMultipleTargets,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "empty weights",
			mutate:  func(c *Config) { c.Weights = nil },
			wantErr: ErrInvalidWeights,
		},
		{
			name: "weights do not sum to one",
			mutate: func(c *Config) {
				c.Weights["ai_optimization"] = 0.5
			},
			wantErr: ErrInvalidWeights,
		},
		{
			name: "negative weight",
			mutate: func(c *Config) {
				c.Weights["ai_optimization"] = -0.25
				c.Weights["mobile_optimization"] = 0.70
			},
			wantErr: ErrInvalidWeights,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveReferenceYear(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.ReferenceYear = 2024
	if got := cfg.EffectiveReferenceYear(); got != 2024 {
		t.Errorf("EffectiveReferenceYear() = %d, want 2024", got)
	}

	cfg.ReferenceYear = 0
	if got := cfg.EffectiveReferenceYear(); got != time.Now().Year() {
		t.Errorf("EffectiveReferenceYear() = %d, want current year", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
weights:
  ai_optimization: 0.30
  mobile_optimization: 0.15
userAgent: custom-agent/1.0
referenceYear: 2024
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.Weights["ai_optimization"] != 0.30 {
			t.Errorf("ai_optimization weight = %v, want 0.30", cf.Weights["ai_optimization"])
		}
		if cf.UserAgent != "custom-agent/1.0" {
			t.Errorf("UserAgent = %q, want custom-agent/1.0", cf.UserAgent)
		}
		if cf.ReferenceYear != 2024 {
			t.Errorf("ReferenceYear = %d, want 2024", cf.ReferenceYear)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfigFile() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("weights: [not a map"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("LoadConfigFile() expected error for invalid YAML")
		}
	})
}

func TestFileApply(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cf := &File{
		Weights:         map[string]float64{"ai_optimization": 0.30, "mobile_optimization": 0.15},
		UserAgent:       "custom/2.0",
		PageSpeedAPIKey: "key-from-file",
		ReferenceYear:   2023,
	}
	cf.Apply(cfg)

	if cfg.Weights["ai_optimization"] != 0.30 {
		t.Errorf("weight override not applied: %v", cfg.Weights["ai_optimization"])
	}
	if cfg.Weights["technical_seo"] != 0.10 {
		t.Errorf("untouched weight changed: %v", cfg.Weights["technical_seo"])
	}
	if cfg.UserAgent != "custom/2.0" {
		t.Errorf("UserAgent = %q, want custom/2.0", cfg.UserAgent)
	}
	if cfg.PageSpeedAPIKey != "key-from-file" {
		t.Errorf("PageSpeedAPIKey = %q", cfg.PageSpeedAPIKey)
	}
	if cfg.ReferenceYear != 2023 {
		t.Errorf("ReferenceYear = %d, want 2023", cfg.ReferenceYear)
	}

	// CLI-set values win over file values.
	cfg2 := NewConfig()
	cfg2.PageSpeedAPIKey = "key-from-flag"
	cfg2.ReferenceYear = 2025
	cf.Apply(cfg2)
	if cfg2.PageSpeedAPIKey != "key-from-flag" {
		t.Errorf("flag API key overridden: %q", cfg2.PageSpeedAPIKey)
	}
	if cfg2.ReferenceYear != 2025 {
		t.Errorf("flag reference year overridden: %d", cfg2.ReferenceYear)
	}
}
