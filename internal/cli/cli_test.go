package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDemo_AllScenariosPass(t *testing.T) {
	stdout, _, err := execute(t, "", "demo", "--log-format", "json")
	require.NoError(t, err)

	for _, sc := range demoScenarios {
		assert.Contains(t, stdout, "ok   "+sc.name)
	}
	assert.NotContains(t, stdout, "FAIL")
}

func TestDemo_MetricsSnapshot(t *testing.T) {
	_, stderr, err := execute(t, "", "demo", "--metrics", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"metric":"lrucache_cache_evictions_total"`)
	assert.Contains(t, stderr, `"labels":"component=capacity-one"`)
}

func TestDemo_DebugLogsEvictions(t *testing.T) {
	_, stderr, err := execute(t, "", "demo", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"evicted"`)
}

func TestReplay_Scenario(t *testing.T) {
	script := `
# capacity 2 from the flag
put 1 1
put 2 2
get 1
put 3 3
get 2
put 4 4
get 1
get 3
get 4
keys
stats
`
	stdout, _, err := execute(t, script, "replay", "--capacity", "2")
	require.NoError(t, err)

	want := strings.Join([]string{
		"put 1",
		"put 2",
		"get 1 -> 1",
		"put 3 (evicted 2)",
		"get 2 -> absent",
		"put 4 (evicted 1)",
		"get 1 -> absent",
		"get 3 -> 3",
		"get 4 -> 4",
		"keys -> [4 3]",
		"stats -> hits=3 misses=2 evictions=2 len=2 cap=2",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
}

func TestReplay_PeekDelClear(t *testing.T) {
	script := "put a x\nput b y\npeek a\nput c z\ndel b\ndel b\nPEEK zz\nclear\nkeys\n"
	stdout, _, err := execute(t, script, "replay", "-")
	require.NoError(t, err)

	want := strings.Join([]string{
		"put a",
		"put b",
		"peek a -> x",
		"put c (evicted a)",
		"del b -> true",
		"del b -> false",
		"peek zz -> absent",
		"clear",
		"keys -> []",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
}

func TestReplay_FromFileWithEnvCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte("put a 1\nput b 2\nput c 3\nkeys\n"), 0o644))

	t.Setenv("LRUCACHE_CACHE_CAPACITY", "3")
	stdout, _, err := execute(t, "", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "keys -> [c b a]")
	assert.NotContains(t, stdout, "evicted")
}

func TestReplay_FlagBeatsEnv(t *testing.T) {
	t.Setenv("LRUCACHE_CACHE_CAPACITY", "3")
	stdout, _, err := execute(t, "put a 1\nput b 2\n", "replay", "--capacity", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "put b (evicted a)")
}

func TestReplay_RejectsInvalidCapacity(t *testing.T) {
	_, _, err := execute(t, "", "replay", "--capacity", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.capacity")
}

func TestReplay_BadScript(t *testing.T) {
	cases := map[string]string{
		"unknown command": "put a 1\nfrobnicate\n",
		"wrong arity":     "put a 1\nput b\n",
	}
	for name, script := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, script, "replay")
			require.ErrorIs(t, err, ErrBadScript)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReplay_StopsOnCanceledContext(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"replay"})
	cmd.SetIn(strings.NewReader("put a 1\n"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestParseLine(t *testing.T) {
	fields, err := parseLine("   # comment")
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = parseLine("  GET   k ")
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "k"}, fields)

	_, err = parseLine("keys extra")
	assert.ErrorIs(t, err, ErrBadScript)
}
