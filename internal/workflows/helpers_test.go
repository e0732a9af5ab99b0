package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/enject/internal/secrets"
)

const testPassword = "correct horse battery staple"

// Cheap parameters keep Argon2id fast under test.
var testKdf = secrets.KdfParams{MemoryCost: 8192, TimeCost: 1, Parallelism: 1}

func pw(s string) secrets.Secret { return secrets.FromString(s) }

func initProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	params := testKdf
	_, err := Init(context.Background(), InitOptions{
		ProjectRoot: root,
		Password:    pw(testPassword),
		KdfParams:   &params,
	})
	require.NoError(t, err)
	return root
}

func initGlobal(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "global")
	params := testKdf
	_, err := Init(context.Background(), InitOptions{
		Global:    true,
		GlobalDir: dir,
		Password:  pw(testPassword),
		KdfParams: &params,
	})
	require.NoError(t, err)
	return dir
}

func setSecret(t *testing.T, opts StoreOptions, name, value string) {
	t.Helper()
	_, err := Set(context.Background(), SetOptions{
		StoreOptions: opts,
		Password:     pw(testPassword),
		Name:         name,
		Value:        pw(value),
	})
	require.NoError(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func passwordOf(s string) PasswordFunc {
	return func() (secrets.Secret, error) { return pw(s), nil }
}

func noPassword(t *testing.T) PasswordFunc {
	return func() (secrets.Secret, error) {
		t.Fatal("password requested unexpectedly")
		return nil, nil
	}
}
