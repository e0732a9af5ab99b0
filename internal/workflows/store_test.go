package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/enject/internal/configs"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

func TestValidateSecretName(t *testing.T) {
	valid := []string{"API_KEY", "_private", "db.password", "a-b", "x1"}
	for _, name := range valid {
		assert.NoError(t, ValidateSecretName(name), name)
	}

	invalid := []string{"", "1abc", "global/KEY", "has space", "a=b", "-dash"}
	for _, name := range invalid {
		err := ValidateSecretName(name)
		assert.True(t, errors.Is(err, kerrors.ErrInvalidSecretName), "%q: %v", name, err)
	}
}

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates config and store", func(t *testing.T) {
		root := initProject(t)
		dir := filepath.Join(root, configs.DirName)

		config, err := configs.Read(dir)
		require.NoError(t, err)
		assert.Equal(t, configs.BackendPassword, config.Backend)
		assert.Equal(t, testKdf, config.KdfParams())
		assert.NotEmpty(t, config.StoreID)

		info, err := os.Stat(configs.StorePath(dir))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("refuses to reinitialize", func(t *testing.T) {
		root := initProject(t)
		params := testKdf
		_, err := Init(ctx, InitOptions{ProjectRoot: root, Password: pw("other"), KdfParams: &params})
		assert.ErrorIs(t, err, kerrors.ErrStoreAlreadyInitialized)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		root := t.TempDir()
		_, err := Init(ctx, InitOptions{ProjectRoot: root})
		assert.ErrorIs(t, err, kerrors.ErrEmptyPassword)
		assert.NoDirExists(t, filepath.Join(root, configs.DirName))
	})

	t.Run("rejects invalid kdf params", func(t *testing.T) {
		root := t.TempDir()
		params := testKdf
		params.TimeCost = 0
		_, err := Init(ctx, InitOptions{ProjectRoot: root, Password: pw(testPassword), KdfParams: &params})
		assert.ErrorIs(t, err, kerrors.ErrInvalidKdfParams)
	})

	t.Run("global store", func(t *testing.T) {
		dir := initGlobal(t)
		assert.FileExists(t, configs.ConfigPath(dir))
		assert.FileExists(t, configs.StorePath(dir))
	})
}

func TestSet(t *testing.T) {
	ctx := context.Background()
	root := initProject(t)
	opts := StoreOptions{ProjectRoot: root}

	result, err := Set(ctx, SetOptions{StoreOptions: opts, Password: pw(testPassword), Name: "API_KEY", Value: pw("one")})
	require.NoError(t, err)
	assert.False(t, result.Overwritten)

	result, err = Set(ctx, SetOptions{StoreOptions: opts, Password: pw(testPassword), Name: "API_KEY", Value: pw("two")})
	require.NoError(t, err)
	assert.True(t, result.Overwritten)

	_, err = Set(ctx, SetOptions{StoreOptions: opts, Password: pw("wrong"), Name: "OTHER", Value: pw("x")})
	assert.ErrorIs(t, err, kerrors.ErrDecryptionFailed)

	_, err = Set(ctx, SetOptions{StoreOptions: opts, Password: pw(testPassword), Name: "bad name", Value: pw("x")})
	assert.ErrorIs(t, err, kerrors.ErrInvalidSecretName)

	_, err = Set(ctx, SetOptions{StoreOptions: opts, Password: pw(testPassword), Name: "EMPTY"})
	assert.ErrorIs(t, err, kerrors.ErrEmptySecretValue)

	_, err = Set(ctx, SetOptions{StoreOptions: StoreOptions{ProjectRoot: t.TempDir()}, Password: pw(testPassword), Name: "A", Value: pw("x")})
	assert.ErrorIs(t, err, kerrors.ErrStoreNotInitialized)
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	root := initProject(t)
	opts := StoreOptions{ProjectRoot: root}

	setSecret(t, opts, "B", "2")
	setSecret(t, opts, "A", "1")

	list, err := List(ctx, ListOptions{StoreOptions: opts, Password: pw(testPassword)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, list.Names)

	result, err := Delete(ctx, DeleteOptions{StoreOptions: opts, Password: pw(testPassword), Name: "A"})
	require.NoError(t, err)
	assert.True(t, result.Removed)

	result, err = Delete(ctx, DeleteOptions{StoreOptions: opts, Password: pw(testPassword), Name: "A"})
	require.NoError(t, err)
	assert.False(t, result.Removed)

	list, err = List(ctx, ListOptions{StoreOptions: opts, Password: pw(testPassword)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, list.Names)
}

func TestListReportsMissingReferences(t *testing.T) {
	root := initProject(t)
	opts := StoreOptions{ProjectRoot: root}
	setSecret(t, opts, "PRESENT", "v")

	writeFile(t, filepath.Join(root, ".env"), "A=en://PRESENT\nB=en://ABSENT\nC=en://global/ELSEWHERE\nD=plain\n")

	list, err := List(context.Background(), ListOptions{StoreOptions: opts, Password: pw(testPassword), EnvFile: ".env"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PRESENT"}, list.Names)
	assert.Equal(t, []string{"ABSENT"}, list.Missing)
}

func TestListIgnoresMissingTemplate(t *testing.T) {
	root := initProject(t)

	list, err := List(context.Background(), ListOptions{
		StoreOptions: StoreOptions{ProjectRoot: root},
		Password:     pw(testPassword),
		EnvFile:      ".env",
	})
	require.NoError(t, err)
	assert.Empty(t, list.Names)
	assert.Empty(t, list.Missing)
}

func TestGlobalStoreIsSeparate(t *testing.T) {
	root := initProject(t)
	globalDir := initGlobal(t)

	setSecret(t, StoreOptions{Global: true, GlobalDir: globalDir}, "SHARED", "g")

	local, err := List(context.Background(), ListOptions{StoreOptions: StoreOptions{ProjectRoot: root}, Password: pw(testPassword)})
	require.NoError(t, err)
	assert.Empty(t, local.Names)

	global, err := List(context.Background(), ListOptions{StoreOptions: StoreOptions{Global: true, GlobalDir: globalDir}, Password: pw(testPassword)})
	require.NoError(t, err)
	assert.Equal(t, []string{"SHARED"}, global.Names)
	assert.True(t, global.Global)
}

func TestGlobalStoreNotInitialized(t *testing.T) {
	_, err := List(context.Background(), ListOptions{
		StoreOptions: StoreOptions{Global: true, GlobalDir: filepath.Join(t.TempDir(), "none")},
		Password:     pw(testPassword),
	})
	require.ErrorIs(t, err, kerrors.ErrStoreNotInitialized)
	assert.Contains(t, err.Error(), "global")
}
