package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Fetch.ChunkSize != 100 {
			t.Errorf("expected default chunk size 100, got %d", config.Fetch.ChunkSize)
		}
		if config.Fetch.HistoryLimit != 50 {
			t.Errorf("expected default history limit 50, got %d", config.Fetch.HistoryLimit)
		}
		if config.Credentials.Scope != "user-read-recently-played" {
			t.Errorf("unexpected default scope %q", config.Credentials.Scope)
		}
		if config.Output.Dir != "data_raw" {
			t.Errorf("unexpected default output dir %q", config.Output.Dir)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Missing File", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Valid File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[credentials]\nclient_id = \"abc\"\nclient_secret = \"xyz\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.ClientID != "abc" {
				t.Errorf("expected client_id 'abc', got %q", config.Credentials.ClientID)
			}
		})
	})

	t.Run("LoadEnv Overrides File Values", func(t *testing.T) {
		t.Setenv("CLIENT_ID", "env_id")
		t.Setenv("CLIENT_SECRET", "env_secret")

		config := DefaultConfig()
		config.Credentials.ClientID = "file_id"
		config.LoadEnv(filepath.Join(t.TempDir(), ".env"))

		if config.Credentials.ClientID != "env_id" {
			t.Errorf("expected env override, got %q", config.Credentials.ClientID)
		}
		if config.Credentials.ClientSecret != "env_secret" {
			t.Errorf("expected env override, got %q", config.Credentials.ClientSecret)
		}
	})

	t.Run("LoadEnv Reads Dotenv File", func(t *testing.T) {
		// t.Setenv registers restoration; godotenv only fills unset variables
		t.Setenv("CLIENT_ID", "placeholder")
		t.Setenv("CLIENT_SECRET", "placeholder")
		os.Unsetenv("CLIENT_ID")
		os.Unsetenv("CLIENT_SECRET")

		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("CLIENT_ID=dotenv_id\nCLIENT_SECRET=dotenv_secret\n"), 0644); err != nil {
			t.Fatal(err)
		}

		config := DefaultConfig()
		config.LoadEnv(path)

		if config.Credentials.ClientID != "dotenv_id" {
			t.Errorf("expected dotenv value, got %q", config.Credentials.ClientID)
		}
	})

	t.Run("ValidateCredentials", func(t *testing.T) {
		config := DefaultConfig()

		if err := config.ValidateCredentials(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		config.Credentials.ClientID = "abc"
		config.Credentials.ClientSecret = "xyz"
		if err := config.ValidateCredentials(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
