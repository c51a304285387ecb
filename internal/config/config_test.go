package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/gqlcore/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: "127.0.0.1:9090"
  timeout: 2s
  corsOrigins: ["https://example.com"]
graphql:
  introspection: false
  concurrency: 16
log:
  format: json
`))
	require.NoError(t, err)

	want := Default()
	want.Server.Addr = "127.0.0.1:9090"
	want.Server.Timeout = 2 * time.Second
	want.Server.CORSOrigins = []string{"https://example.com"}
	want.GraphQL.Introspection = false
	want.GraphQL.Concurrency = 16
	want.Log.Format = "json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{name: "unknown key", yaml: "server:\n  port: 80\n", want: ErrInvalidYAML},
		{name: "malformed", yaml: "server: [", want: ErrInvalidYAML},
		{name: "bad duration", yaml: "server:\n  timeout: soon\n", want: ErrInvalidYAML},
		{name: "zero concurrency", yaml: "graphql:\n  concurrency: 0\n", want: ErrInvalid},
		{name: "negative body limit", yaml: "server:\n  maxBodyBytes: -1\n", want: ErrInvalid},
		{name: "empty addr", yaml: "server:\n  addr: \"\"\n", want: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, logging.LevelDebug, cfg.Logging().Level)
	require.Equal(t, logging.FormatText, cfg.Logging().Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrFileNotFound)
}
