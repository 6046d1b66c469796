package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/attrgrid/internal/app"
	"github.com/vk/attrgrid/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a sheet test run.
type HarnessResult struct {
	Dir       string
	LogOutput *SafeBuffer
	Err       error
	App       *app.App
}

// WriteFiles writes files (relative path to content) below a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// RunSheetTest writes files to a temporary directory and starts an app over
// its "sheets" subdirectory with the HCL loader and the built-in modules.
// Paths in files are relative to the temporary root, so a values file can
// live next to the sheets. configure may adjust the config before start.
func RunSheetTest(t *testing.T, files map[string]string, configure ...func(dir string, cfg *app.Config)) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	sheetsDir := filepath.Join(dir, "sheets")
	require.NoError(t, os.MkdirAll(sheetsDir, 0755))

	cfg := app.Config{
		SheetPaths: []string{sheetsDir},
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	for _, fn := range configure {
		fn(dir, &cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp, err := app.New(logBuffer, appConfig, hcl_adapter.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("ATTRGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return &HarnessResult{
		Dir:       dir,
		LogOutput: logBuffer,
		Err:       err,
		App:       testApp,
	}
}
