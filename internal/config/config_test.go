package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadSegmentSize(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Import.SegmentSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero segment size")
	}
}

func TestValidateRejectsBadMeasure(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Calc.Measure = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero measure")
	}
}

func TestValidateRejectsBadTolerance(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Calc.Tolerance = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative tolerance")
	}
}

func TestValidateRejectsEmptyStoreDir(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Store.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty store dir")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"CHESSPERF_STORE_DIR":           "store.dir",
		"CHESSPERF_CALC_MAX_ITERATIONS": "calc.max_iterations",
		"CHESSPERF_LOGGING_LEVEL":       "logging.level",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
