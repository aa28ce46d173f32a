package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

// ----------------- Tests for printBuildInfo -----------------

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set build info variables
	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2026-08-29"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	// Check if all expected strings are present
	if !contains(output, "v1.0.0") ||
		!contains(output, "abcd1234") ||
		!contains(output, "2026-08-29") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBrokers, kafkaTopic,
		s3Endpoint, s3Region, s3Bucket, s3AccessKey, s3SecretKey, s3PublicBaseURL,
		accessSecret, refreshSecret, accessExpSecond, refreshExpSecond,
		cacheExpSecond,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	// Application
	if appHost != "localhost" || appPort != "8080" || logLevel != "info" {
		t.Errorf("unexpected app config: %v/%v/%v", appHost, appPort, logLevel)
	}

	// PostgreSQL
	if pgHost != "localhost" || pgPort != 5432 || pgUser != "user" || pgPassword != "password" || pgDB != "database" ||
		pgMaxOpenConns != 16 || pgMaxIdleConns != 8 {
		t.Errorf("unexpected postgres config")
	}

	// Redis
	if redisHost != "localhost" || redisPort != 6379 || redisDB != 0 || redisPassword != "" || cacheExpSecond != 60 {
		t.Errorf("unexpected redis config")
	}

	// Kafka: disabled by default
	if kafkaBrokers != "" || kafkaTopic != "video-tube-events" {
		t.Errorf("unexpected kafka config: %v/%v", kafkaBrokers, kafkaTopic)
	}

	// Media host
	if s3Endpoint != "http://localhost:9000" || s3Region != "us-east-1" || s3Bucket != "media" ||
		s3AccessKey != "minioadmin" || s3SecretKey != "minioadmin" ||
		s3PublicBaseURL != "http://localhost:9000/media" {
		t.Errorf("unexpected media host config")
	}

	// JWT
	if accessSecret != "my_super_secret_access_key" || refreshSecret != "my_super_secret_refresh_key" ||
		accessExpSecond != 900 || refreshExpSecond != 864000 {
		t.Errorf("unexpected jwt config")
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	resetEnv()

	os.Setenv("APP_PORT", "9090")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("KAFKA_BROKERS", "kafka:9092")
	os.Setenv("JWT_ACCESS_EXP_SECOND", "120")
	defer resetEnv()

	_, appPort, _,
		_, pgPort, _, _, _,
		_, _,
		_, _, _, _,
		kafkaBrokers, _,
		_, _, _, _, _, _,
		_, _, accessExpSecond, _,
		_,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if appPort != "9090" {
		t.Errorf("expected app port 9090, got %s", appPort)
	}
	if pgPort != 5433 {
		t.Errorf("expected postgres port 5433, got %d", pgPort)
	}
	if kafkaBrokers != "kafka:9092" {
		t.Errorf("expected kafka brokers kafka:9092, got %s", kafkaBrokers)
	}
	if accessExpSecond != 120 {
		t.Errorf("expected access exp 120, got %d", accessExpSecond)
	}
}

func TestParseConfig_InvalidInt(t *testing.T) {
	resetEnv()

	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer resetEnv()

	_, _, _,
		_, _, _, _, _,
		_, _,
		_, _, _, _,
		_, _,
		_, _, _, _, _, _,
		_, _, _, _,
		_,
		err := parseConfig("nonexistent.env")

	if err == nil {
		t.Error("expected error for invalid POSTGRES_PORT")
	}
}
