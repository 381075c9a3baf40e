package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fygallery/internal/api"
	"fygallery/internal/api/apitest"
	"fygallery/internal/config"
	"fygallery/internal/prefs"
	"fygallery/internal/service"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv      *apitest.Server
	prefsDir string
	root     *cobra.Command
}

// setupTestEnv starts a fake API and builds a root command whose service
// talks to it and keeps preferences in a temporary directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.NewServer(t,
		api.Image{ID: 1, Title: "Sunset", Description: "Over the bay", Filename: "a.jpg", Likes: 3, UploadedAt: "2024-03-01 10:00:00"},
		api.Image{ID: 2, Title: "Forest", Description: "Green canopy", Filename: "b.jpg", Likes: 9, UploadedAt: "2024-02-01 10:00:00"},
	)
	env := &testEnv{srv: srv, prefsDir: t.TempDir()}
	env.root = NewRootCmd(func(settings config.Settings, logger func(string)) (*service.Service, error) {
		store, err := prefs.Open(settings.PrefsDir, logger)
		if err != nil {
			return nil, err
		}
		return service.NewService(srv.NewClient(t), store, logger), nil
	})
	return env
}

// executeCommandC executes a cobra command and captures its output.
func executeCommandC(root *cobra.Command, args ...string) (string, string, error) {
	searchFlag = ""
	sortFlag = "recent"

	actualStdout := new(bytes.Buffer)
	actualStderr := new(bytes.Buffer)
	root.SetOut(actualStdout)
	root.SetErr(actualStderr)
	root.SetArgs(args)

	err := root.Execute()

	return actualStdout.String(), actualStderr.String(), err
}

func (e *testEnv) run(args ...string) (string, string, error) {
	return executeCommandC(e.root, append([]string{"--api", e.srv.URL, "--prefs", e.prefsDir}, args...)...)
}

func TestRootHelp(t *testing.T) {
	env := setupTestEnv(t)
	stdout, stderr, err := executeCommandC(env.root, "--help")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "fygallery-cli [command]")
}

func TestListCommand(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("recent first", func(t *testing.T) {
		stdout, stderr, err := env.run("list")
		require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "#1\tSunset"))
		assert.True(t, strings.HasPrefix(lines[1], "#2\tForest"))
	})

	t.Run("search and sort are sent", func(t *testing.T) {
		stdout, stderr, err := env.run("list", "--search", "for", "--sort", "likes")
		require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
		assert.Contains(t, stdout, "Forest")
		assert.NotContains(t, stdout, "Sunset")
		reqs := env.srv.RequestsTo("/api/images")
		assert.Equal(t, "search=for&sort=likes", reqs[len(reqs)-1].RawQuery)
	})

	t.Run("no match", func(t *testing.T) {
		stdout, _, err := env.run("list", "-s", "zebra")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No images found")
	})

	t.Run("unknown sort", func(t *testing.T) {
		_, _, err := env.run("list", "--sort", "random")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown sort")
	})
}

func TestCommentCommands(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := env.run("comments", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No comments yet")

	stdout, stderr, err := env.run("comment", "1", "ana@example.com", "Lovely", "colours")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Comment published!")

	stdout, _, err = env.run("comments", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ana@example.com: Lovely colours")

	_, _, err = env.run("comment", "1", "not-an-email", "hi")
	require.Error(t, err)
	assert.Len(t, env.srv.RequestsTo("/api/comments/1"), 3, "invalid input never reaches the server")
}

func TestLikeCommandToggles(t *testing.T) {
	env := setupTestEnv(t)

	stdout, stderr, err := env.run("like", "2", "ana@example.com")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Like sent! (10 likes)")

	stdout, _, err = env.run("like", "2", "ana@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Like removed (9 likes)")

	_, _, err = env.run("like", "abc", "ana@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image id")
}

func TestFavoriteCommands(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := env.run("favorites")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No favorites yet.")

	stdout, stderr, err := env.run("favorite", "2")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Added 'Forest' to favorites")

	stdout, _, err = env.run("list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "b.jpg ★")

	stdout, _, err = env.run("favorites")
	require.NoError(t, err)
	assert.Contains(t, stdout, "#2\tForest")

	stdout, _, err = env.run("favorite", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 'Forest' from favorites")

	_, _, err = env.run("favorite", "42")
	require.Error(t, err)
}

func TestDownloadCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.srv.SetAsset("a.jpg", []byte("not really a jpeg"))
	dir := t.TempDir()

	stdout, stderr, err := env.run("download", "1", dir)
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	path := filepath.Join(dir, "a.jpg")
	assert.Contains(t, stdout, "Saved "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not really a jpeg", string(data))
}

func TestThemeCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := env.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", strings.TrimSpace(stdout))

	stdout, _, err = env.run("theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark", strings.TrimSpace(stdout))

	_, _, err = env.run("theme", "sepia")
	require.Error(t, err)

	stdout, _, err = env.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", strings.TrimSpace(stdout))
}

func TestInvalidAPIURL(t *testing.T) {
	env := setupTestEnv(t)
	_, _, err := executeCommandC(env.root, "--api", "not a url", "--prefs", env.prefsDir, "favorites")
	require.Error(t, err)
}
