package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airport-simulator/internal/game/conflict"
	"airport-simulator/pkg/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AIRPORT_FILE", "TRAFFIC_FILE", "SEPARATION_M", "HORIZON_S", "START_TIME",
		"LISTEN_ADDR", "STEPS", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.ConflictConfig(); got != conflict.DefaultConfig() {
		t.Errorf("ConflictConfig() = %+v, want %+v", got, conflict.DefaultConfig())
	}
	if start, _ := cfg.StartStep(); start != types.DAY/2 {
		t.Errorf("StartStep() = %d, want noon", start)
	}
	if cfg.ListenAddr != "" || cfg.Steps != 0 || cfg.Log.Level != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestEnvironmentAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEPARATION_M", "90")
	t.Setenv("HORIZON_S", "60")
	t.Setenv("LISTEN_ADDR", ":8080")

	cfg, err := Load("", []string{"-sep", "150", "-start", "08:00:00", "-steps", "10"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := conflict.Config{Separation: 150, Horizon: 12}
	if got := cfg.ConflictConfig(); got != want {
		t.Errorf("ConflictConfig() = %+v, want %+v", got, want)
	}
	if start, _ := cfg.StartStep(); start != types.StepFromSeconds(8*3600) {
		t.Errorf("StartStep() = %d", start)
	}
	if cfg.ListenAddr != ":8080" || cfg.Steps != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	os.Unsetenv("TRAFFIC_FILE")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("AIRPORT_FILE", "from-env.txt")

	path := filepath.Join(t.TempDir(), ".env")
	data := "AIRPORT_FILE=from-file.txt\nTRAFFIC_FILE=traffic.txt\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AirportFile != "from-env.txt" {
		t.Errorf("AirportFile = %q, the environment should win over .env", cfg.AirportFile)
	}
	if cfg.TrafficFile != "traffic.txt" || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	found, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil || found {
		t.Errorf("LoadEnvFile(missing) = %v, %v", found, err)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-sep", "0"}, "separation must be positive"},
		{[]string{"-horizon", "-5"}, "horizon must not be negative"},
		{[]string{"-start", "noon"}, "start time"},
		{[]string{"-log-level", "loud"}, "invalid log level"},
		{[]string{"-airport", ""}, "airport file is required"},
		{[]string{"extra"}, "unexpected arguments"},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			_, err := Load("", tc.args, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load(%q) error = %v, want %q", tc.args, err, tc.want)
			}
		})
	}

	if _, err := Load("", []string{"-unknown"}, io.Discard); err == nil {
		t.Errorf("unknown flag should fail")
	}
}

func TestInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEPARATION_M", "far")
	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "SEPARATION_M") {
		t.Errorf("FromEnv() error = %v", err)
	}
}
