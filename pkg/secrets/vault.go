package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// VaultConfig locates a KV secret holding environment overrides such as
// BACKEND_URL or REDIS_PASSWORD
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration

	// Overwrite replaces variables already present in the environment
	Overwrite bool
}

// Result reports what a load did
type Result struct {
	Path    string
	Loaded  int
	Skipped int
}

// ConfigFromEnv reads the VAULT_* variables
func ConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     os.Getenv("VAULT_MOUNT"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if cfg.Path == "" {
		cfg.Path = "hms-frontdesk"
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// URL is the read endpoint of the configured secret
func (c VaultConfig) URL() (string, error) {
	addr := strings.TrimRight(c.Addr, "/")
	mount := strings.Trim(c.Mount, "/")
	path := strings.Trim(c.Path, "/")
	if addr == "" || mount == "" || path == "" {
		return "", errors.New("vault address, mount and path must be set")
	}
	if c.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
}

// Fetch reads the secret's key/value pairs
func Fetch(ctx context.Context, cfg VaultConfig) (map[string]string, error) {
	if cfg.Token == "" {
		return nil, errors.New("VAULT_TOKEN is required")
	}
	url, err := cfg.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := (&http.Client{Timeout: cfg.Timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vault returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}
	fields := payload.Data
	if cfg.KVVersion != 1 {
		inner, ok := fields["data"]
		if !ok {
			return nil, errors.New("vault response has no data for KV v2")
		}
		fields = nil
		if err := json.Unmarshal(inner, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode vault data: %w", err)
		}
	}
	if fields == nil {
		return nil, errors.New("vault response has no data")
	}

	out := make(map[string]string, len(fields))
	for k, raw := range fields {
		out[k] = stringify(raw)
	}
	return out, nil
}

// Apply exports the secret into the process environment. It is a no-op
// when Vault is disabled.
func Apply(ctx context.Context, cfg VaultConfig) (Result, error) {
	res := Result{Path: cfg.Path}
	if !cfg.Enabled {
		return res, nil
	}
	values, err := Fetch(ctx, cfg)
	if err != nil {
		return res, err
	}
	for k, v := range values {
		if !cfg.Overwrite && os.Getenv(k) != "" {
			res.Skipped++
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return res, err
		}
		res.Loaded++
	}
	return res, nil
}

func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
