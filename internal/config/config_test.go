package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/staffing.csv", cfg.Data.SourceFile)
	assert.Equal(t, "D.O.A", cfg.Data.DateColumn)
	assert.Equal(t, 4.0, cfg.Analytics.RiskRatio)
	assert.Equal(t, 5.0, cfg.Analytics.PatientsPerNurseModel)
	assert.Equal(t, 1.0, cfg.Analytics.MinRatioFloor)
	assert.Equal(t, 5.0, cfg.Analytics.MinRatioCeil)
	assert.Equal(t, 20, cfg.Analytics.HistogramBins)
	assert.Equal(t, "skip", cfg.Analytics.MissingValues)

	require.NoError(t, cfg.validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WARD_SERVER_PORT", "9090")
	t.Setenv("WARD_DATA_SOURCE_FILE", "testdata/rota.csv")
	t.Setenv("WARD_ANALYTICS_RISK_RATIO", "3.5")
	t.Setenv("WARD_ANALYTICS_MISSING_VALUES", "propagate")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "testdata/rota.csv", cfg.Data.SourceFile)
	assert.Equal(t, 3.5, cfg.Analytics.RiskRatio)
	assert.Equal(t, "propagate", cfg.Analytics.MissingValues)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing source file",
			mutate:  func(c *Config) { c.Data.SourceFile = "" },
			wantErr: "data source file",
		},
		{
			name:    "non-positive risk ratio",
			mutate:  func(c *Config) { c.Analytics.RiskRatio = 0 },
			wantErr: "risk ratio must be positive",
		},
		{
			name:    "non-positive staffing model",
			mutate:  func(c *Config) { c.Analytics.PatientsPerNurseModel = -5 },
			wantErr: "patients-per-nurse model",
		},
		{
			name:    "inverted ratio bounds",
			mutate:  func(c *Config) { c.Analytics.MinRatioFloor = 6.0 },
			wantErr: "exceeds ceiling",
		},
		{
			name:    "zero histogram bins",
			mutate:  func(c *Config) { c.Analytics.HistogramBins = 0 },
			wantErr: "histogram bins",
		},
		{
			name:    "unknown missing values policy",
			mutate:  func(c *Config) { c.Analytics.MissingValues = "zero-fill" },
			wantErr: "skip or propagate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Data.SourceFile = "from-file.csv"
	fileCfg.Server.Port = 8181
	fileCfg.Analytics.RiskRatio = 4.5

	envCfg := Config{}
	envCfg.Data.SourceFile = "from-env.csv"

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, "from-env.csv", merged.Data.SourceFile, "env should win")
	assert.Equal(t, 8181, merged.Server.Port, "file should fill gaps")
	assert.Equal(t, 4.5, merged.Analytics.RiskRatio)
}
