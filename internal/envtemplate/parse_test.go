package envtemplate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []EnvLine
	}{
		{
			name:  "plain value",
			input: "PORT=8080",
			want:  []EnvLine{Plain{Key: "PORT", Value: "8080"}},
		},
		{
			name:  "local reference",
			input: "DB=en://db_url",
			want:  []EnvLine{LocalRef{Key: "DB", SecretName: "db_url"}},
		},
		{
			name:  "global reference",
			input: "TOKEN=en://global/api_token",
			want:  []EnvLine{GlobalRef{Key: "TOKEN", SecretName: "api_token"}},
		},
		{
			name:  "legacy local reference",
			input: "DB=ev://db_url",
			want:  []EnvLine{LocalRef{Key: "DB", SecretName: "db_url", Legacy: true}},
		},
		{
			name:  "legacy global reference",
			input: "TOKEN=ev://global/api_token",
			want:  []EnvLine{GlobalRef{Key: "TOKEN", SecretName: "api_token", Legacy: true}},
		},
		{
			name:  "value keeps further equals",
			input: "URL=postgres://u:p@h/db?sslmode=require&x=y",
			want:  []EnvLine{Plain{Key: "URL", Value: "postgres://u:p@h/db?sslmode=require&x=y"}},
		},
		{
			name:  "trailing comment stays in the value",
			input: "LOG_LEVEL=debug # literal",
			want:  []EnvLine{Plain{Key: "LOG_LEVEL", Value: "debug # literal"}},
		},
		{
			name:  "trailing comment stays in the secret name",
			input: "DB=en://db_url   # project store",
			want:  []EnvLine{LocalRef{Key: "DB", SecretName: "db_url   # project store"}},
		},
		{
			name:  "empty value",
			input: "EMPTY=",
			want:  []EnvLine{Plain{Key: "EMPTY", Value: ""}},
		},
		{
			name:  "key is trimmed",
			input: "  SPACED  =value",
			want:  []EnvLine{Plain{Key: "SPACED", Value: "value"}},
		},
		{
			name:  "value keeps leading whitespace",
			input: "K= value",
			want:  []EnvLine{Plain{Key: "K", Value: " value"}},
		},
		{
			name:  "trailing whitespace is trimmed",
			input: "K=value  \t",
			want:  []EnvLine{Plain{Key: "K", Value: "value"}},
		},
		{
			name:  "reference with trailing whitespace",
			input: "K=en://name   ",
			want:  []EnvLine{LocalRef{Key: "K", SecretName: "name"}},
		},
		{
			name:  "comment keeps original text",
			input: "# a comment  ",
			want:  []EnvLine{Passthrough{Raw: "# a comment  "}},
		},
		{
			name:  "blank lines keep original text",
			input: "\n   \n",
			want:  []EnvLine{Passthrough{Raw: ""}, Passthrough{Raw: "   "}},
		},
		{
			name:  "comment containing equals",
			input: "#K=en://x",
			want:  []EnvLine{Passthrough{Raw: "#K=en://x"}},
		},
		{
			name:  "secret name containing slashes",
			input: "K=en://team/db",
			want:  []EnvLine{LocalRef{Key: "K", SecretName: "team/db"}},
		},
		{
			name:  "prefix only in the middle is plain",
			input: "K=see en://x",
			want:  []EnvLine{Plain{Key: "K", Value: "see en://x"}},
		},
		{
			name:  "other schemes are plain",
			input: "K=https://example.com",
			want:  []EnvLine{Plain{Key: "K", Value: "https://example.com"}},
		},
		{
			name:  "bare global prefix without trailing slash is a local ref",
			input: "K=en://global",
			want:  []EnvLine{LocalRef{Key: "K", SecretName: "global"}},
		},
		{
			name:  "CRLF line endings",
			input: "A=1\r\nB=en://b\r\n",
			want:  []EnvLine{Plain{Key: "A", Value: "1"}, LocalRef{Key: "B", SecretName: "b"}},
		},
		{
			name:  "trailing newline adds no line",
			input: "A=1\n",
			want:  []EnvLine{Plain{Key: "A", Value: "1"}},
		},
		{
			name:  "mixed file preserves order",
			input: "# header\nA=1\n\nB=en://b\nC=en://global/c\n",
			want: []EnvLine{
				Passthrough{Raw: "# header"},
				Plain{Key: "A", Value: "1"},
				Passthrough{Raw: ""},
				LocalRef{Key: "B", SecretName: "b"},
				GlobalRef{Key: "C", SecretName: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	lines, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		key     string
		noValue string
	}{
		{name: "no equals", input: "JUSTAKEY", line: 1},
		{name: "no equals later in file", input: "A=1\n\nnot-an-assignment", line: 3, noValue: "not-an-assignment"},
		{name: "empty key", input: "=value", line: 1, noValue: "value"},
		{name: "whitespace key", input: "   =value", line: 1},
		{name: "empty local name", input: "K=en://", line: 1, key: "K"},
		{name: "empty global name", input: "K=en://global/", line: 1, key: "K"},
		{name: "empty legacy local name", input: "K=ev://", line: 1, key: "K"},
		{name: "empty legacy global name", input: "K=ev://global/", line: 1, key: "K"},
		{name: "empty name after trim", input: "A=1\nK=en://   ", line: 2, key: "K"},
		{name: "indented comment is not a comment", input: "  # note", line: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, lines, "no partial results")
			assert.True(t, errors.Is(err, kerrors.ErrMalformedTemplateLine))

			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tt.line, lineErr.Line)
			assert.Equal(t, tt.key, lineErr.Key)
			if tt.noValue != "" {
				assert.NotContains(t, err.Error(), tt.noValue)
			}
		})
	}
}

func TestParse_ErrorOmitsValues(t *testing.T) {
	_, err := Parse("PASSWORD=hunter2\nbroken line with sk-live-abc")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
	assert.NotContains(t, err.Error(), "sk-live-abc")
}

func TestParseReader(t *testing.T) {
	lines, err := ParseReader(strings.NewReader("A=en://a\n"))
	require.NoError(t, err)
	assert.Equal(t, []EnvLine{LocalRef{Key: "A", SecretName: "a"}}, lines)
}

func TestParseFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("A=1\nB=en://b\n"), 0600))

		lines, err := ParseFile(path)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, kerrors.ErrFileNotFound))
	})
}

func TestKeyOf(t *testing.T) {
	key, ok := KeyOf(Plain{Key: "A"})
	assert.True(t, ok)
	assert.Equal(t, "A", key)

	key, ok = KeyOf(GlobalRef{Key: "G"})
	assert.True(t, ok)
	assert.Equal(t, "G", key)

	_, ok = KeyOf(Passthrough{Raw: "# x"})
	assert.False(t, ok)
}

func TestPlainRedactsValue(t *testing.T) {
	p := Plain{Key: "PASSWORD", Value: "hunter2"}
	for _, out := range []string{p.String(), p.GoString()} {
		assert.Contains(t, out, "PASSWORD")
		assert.NotContains(t, out, "hunter2")
	}
}
