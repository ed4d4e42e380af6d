package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ecbench/internal/config"
	"ecbench/internal/erasure"
	"ecbench/internal/tactile"
)

type invocation struct {
	Name string
	Args []string
}

// fakeTools impersonates the four coding executables. Encoders lay out the
// shard files the real tools would write; decoders write the reconstruction.
type fakeTools struct {
	t        *testing.T
	layout   erasure.Layout
	k, m     int
	original []byte

	encodeOut string
	decodeOut string

	corrupt   map[string]bool // decoder name -> write a damaged reconstruction
	noDecoded bool
	failWith  map[string]error

	mu    sync.Mutex
	calls []invocation
}

func newFakeTools(t *testing.T, cfg *config.Config, input string) *fakeTools {
	t.Helper()
	data, err := os.ReadFile(input)
	require.NoError(t, err)
	return &fakeTools{
		t:         t,
		layout:    erasure.NewLayout(cfg.CodingDirPath(), input, cfg.Workspace.MetadataMarker, cfg.Workspace.DecodedSuffix),
		k:         cfg.Coding.K,
		m:         cfg.Coding.M,
		original:  data,
		encodeOut: "Encoding (MB/sec): 100\nEncoding (MB/sec): 100\n",
		decodeOut: "Decoding (MB/sec): 90\nDecoding (MB/sec): 90\n",
		corrupt:   map[string]bool{},
		failWith:  map[string]error{},
	}
}

func (f *fakeTools) Run(_ context.Context, name string, args []string) (tactile.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, invocation{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := f.failWith[name]; err != nil {
		return tactile.Output{}, err
	}

	if strings.HasPrefix(name, "encoder") {
		require.NoError(f.t, os.MkdirAll(f.layout.CodingDir, 0o755))
		for i := 1; i <= f.k; i++ {
			require.NoError(f.t, os.WriteFile(f.layout.DataShardPath(i, f.k), []byte("data"), 0o644))
		}
		for i := 1; i <= f.m; i++ {
			require.NoError(f.t, os.WriteFile(f.layout.ParityShardPath(i, f.k), []byte("parity"), 0o644))
		}
		require.NoError(f.t, os.WriteFile(f.layout.MetadataPath(), []byte("meta"), 0o644))
		return tactile.Output{Stdout: f.encodeOut}, nil
	}

	if !f.noDecoded {
		out := append([]byte(nil), f.original...)
		if f.corrupt[name] {
			out[len(out)/2] ^= 0x01
		}
		require.NoError(f.t, os.WriteFile(f.layout.DecodedPath(), out, 0o644))
	}
	return tactile.Output{Stdout: f.decodeOut}, nil
}

func (f *fakeTools) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Name
	}
	return out
}

func (f *fakeTools) remainingFiles() []string {
	entries, err := os.ReadDir(f.layout.CodingDir)
	require.NoError(f.t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

// smallConfig is a one-cell grid over a (4, 2) code.
func smallConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Coding.K = 4
	cfg.Coding.M = 2
	cfg.Coding.NumErrors = 2
	cfg.Sweep.BufferStart = 5
	cfg.Sweep.BufferEnd = 5
	cfg.Sweep.PacketMin = 1
	cfg.Sweep.PacketMax = 1
	cfg.Sweep.Runs = 10
	cfg.Workspace.WorkDir = dir

	input := filepath.Join(dir, "input.txt")
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(input, payload, 0o644))
	return cfg, input
}

func resolveAll(file string) (string, error) {
	return "/usr/local/bin/" + filepath.Base(file), nil
}

func resolveNone(file string) (string, error) {
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}
