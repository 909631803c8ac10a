package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfig, flagSavePath, flagBackend, flagLogLevel = "", "", "", "error"
	flagResetAll = false
	flagHistoryLimit, flagHistoryTop = 10, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestSettingsSetAndShow(t *testing.T) {
	dir := isolateHome(t)
	savePath := filepath.Join(dir, "save.yaml")

	out, err := run(t, "--save", savePath, "settings", "set", "music", "0.4")
	require.NoError(t, err)
	require.Contains(t, out, "music updated")

	out, err = run(t, "--save", savePath, "settings")
	require.NoError(t, err)
	require.Contains(t, out, "0.40")
	require.Contains(t, out, "medium")

	_, err = run(t, "--save", savePath, "settings", "set", "volume", "1")
	require.Error(t, err)
}

func TestResetAllRestoresSettings(t *testing.T) {
	dir := isolateHome(t)
	savePath := filepath.Join(dir, "save.yaml")

	_, err := run(t, "--save", savePath, "settings", "set", "difficulty", "hard")
	require.NoError(t, err)

	_, err = run(t, "--save", savePath, "reset")
	require.NoError(t, err)
	out, err := run(t, "--save", savePath, "settings")
	require.NoError(t, err)
	require.Contains(t, out, "hard", "plain reset keeps settings")

	_, err = run(t, "--save", savePath, "reset", "--all")
	require.NoError(t, err)
	out, err = run(t, "--save", savePath, "settings")
	require.NoError(t, err)
	require.Contains(t, out, "medium")
}

func TestStatsAndAchievementsOnFreshInstall(t *testing.T) {
	dir := isolateHome(t)
	savePath := filepath.Join(dir, "save.yaml")

	out, err := run(t, "--save", savePath, "stats")
	require.NoError(t, err)
	require.Contains(t, out, "Games played")

	out, err = run(t, "--save", savePath, "achievements")
	require.NoError(t, err)
	require.Contains(t, out, "Achievements 0/5")
	require.Contains(t, out, "First Flight")
	require.Contains(t, out, "0/1000")
}

func TestHistoryNeedsSQLite(t *testing.T) {
	dir := isolateHome(t)

	_, err := run(t, "--save", filepath.Join(dir, "save.yaml"), "history")
	require.ErrorContains(t, err, "no session history")

	out, err := run(t, "--backend", "sqlite", "--save", filepath.Join(dir, "flappy.db"), "history")
	require.NoError(t, err)
	require.Contains(t, out, "No sessions recorded yet.")

	out, err = run(t, "--backend", "sqlite", "--save", filepath.Join(dir, "flappy.db"), "history", "--top")
	require.NoError(t, err)
	require.Contains(t, out, "No sessions recorded yet.")
}

func TestUnknownBackendRejected(t *testing.T) {
	isolateHome(t)
	_, err := run(t, "--backend", "floppy", "stats")
	require.ErrorContains(t, err, "save.backend")
}
