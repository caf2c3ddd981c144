package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		field    string
		hasError bool
	}{
		{
			name:     "valid level",
			mutate:   func(c *Config) { c.Logging.Level = "debug" },
			field:    "logging.level",
			hasError: false,
		},
		{
			name:     "empty level is valid",
			mutate:   func(c *Config) { c.Logging.Level = "" },
			field:    "logging.level",
			hasError: false,
		},
		{
			name:     "invalid level",
			mutate:   func(c *Config) { c.Logging.Level = "verbose" },
			field:    "logging.level",
			hasError: true,
		},
		{
			name:     "uppercase level is invalid",
			mutate:   func(c *Config) { c.Logging.Level = "INFO" },
			field:    "logging.level",
			hasError: true,
		},
		{
			name:     "zero max size",
			mutate:   func(c *Config) { c.Logging.MaxSizeMB = 0 },
			field:    "logging.max_size_mb",
			hasError: true,
		},
		{
			name:     "huge max size",
			mutate:   func(c *Config) { c.Logging.MaxSizeMB = 5000 },
			field:    "logging.max_size_mb",
			hasError: true,
		},
		{
			name:     "negative backups",
			mutate:   func(c *Config) { c.Logging.MaxBackups = -1 },
			field:    "logging.max_backups",
			hasError: true,
		},
		{
			name:     "null byte in file path",
			mutate:   func(c *Config) { c.Logging.File = "bad\x00path" },
			field:    "logging.file",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()

			hasError := false
			for _, err := range errs {
				if err.Field == tt.field {
					hasError = true
					break
				}
			}

			if hasError != tt.hasError {
				t.Errorf("Validate(): hasError=%v for %s, want %v (errors: %v)", hasError, tt.field, tt.hasError, errs)
			}
		})
	}
}

func TestConfig_Validate_Tasks(t *testing.T) {
	t.Run("empty path entry", func(t *testing.T) {
		cfg := Default()
		cfg.Tasks.Paths = []string{"tasks", "  "}
		errs := cfg.Validate()

		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "tasks.paths[1]" {
			t.Errorf("Field = %q, want tasks.paths[1]", errs[0].Field)
		}
	})

	t.Run("duplicate paths", func(t *testing.T) {
		cfg := Default()
		cfg.Tasks.Paths = []string{"tasks", "tasks/"}
		errs := cfg.Validate()

		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if !strings.Contains(errs[0].Message, "duplicate") {
			t.Errorf("Message = %q, want duplicate mention", errs[0].Message)
		}
	})

	t.Run("distinct paths are valid", func(t *testing.T) {
		cfg := Default()
		cfg.Tasks.Paths = []string{"tasks", "scripts/tasks", "/opt/shared/tasks"}
		errs := cfg.Validate()

		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestConfig_Validate_Watch(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		field    string
		hasError bool
	}{
		{
			name:     "valid debounce",
			mutate:   func(c *Config) { c.Watch.DebounceMs = 250 },
			field:    "watch.debounce_ms",
			hasError: false,
		},
		{
			name:     "too small debounce",
			mutate:   func(c *Config) { c.Watch.DebounceMs = 5 },
			field:    "watch.debounce_ms",
			hasError: true,
		},
		{
			name:     "too large debounce",
			mutate:   func(c *Config) { c.Watch.DebounceMs = 60000 },
			field:    "watch.debounce_ms",
			hasError: true,
		},
		{
			name:     "empty ignore entry",
			mutate:   func(c *Config) { c.Watch.Ignore = []string{""} },
			field:    "watch.ignore[0]",
			hasError: true,
		},
		{
			name:     "path in ignore entry",
			mutate:   func(c *Config) { c.Watch.Ignore = []string{"vendor/cache"} },
			field:    "watch.ignore[0]",
			hasError: true,
		},
		{
			name:     "plain name ignore entry",
			mutate:   func(c *Config) { c.Watch.Ignore = []string{"vendor"} },
			field:    "watch.ignore[0]",
			hasError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()

			hasError := false
			for _, err := range errs {
				if err.Field == tt.field {
					hasError = true
					break
				}
			}

			if hasError != tt.hasError {
				t.Errorf("Validate(): hasError=%v for %s, want %v (errors: %v)", hasError, tt.field, tt.hasError, errs)
			}
		})
	}
}
