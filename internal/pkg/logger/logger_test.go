package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: false,
		},
		{
			name: "console format",
			config: &Config{
				Level:  "debug",
				Format: "console",
				Output: "console",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: &Config{
				Level:  "verbose",
				Format: "json",
				Output: "console",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: &Config{
				Level:  "info",
				Format: "xml",
				Output: "console",
			},
			wantErr: true,
		},
		{
			name: "invalid output",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "syslog",
			},
			wantErr: true,
		},
		{
			name: "file output without filename",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "file",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			log.Info("test message")
			_ = log.Sync()
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	config := &Config{
		Level:  "info",
		Format: "json",
		Output: "file",
		File: FileConfig{
			Filename: file,
			MaxSize:  10,
		},
	}

	log, err := New(config)
	require.NoError(t, err)
	log.Info("written to file")
	_ = log.Sync()
}

func TestWithAndNamed(t *testing.T) {
	log, err := New(DefaultConfig())
	require.NoError(t, err)

	child := log.Named("component").With()
	require.NotNil(t, child)
	child.Info("child logger message")
}
