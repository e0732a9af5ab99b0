package envtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

func TestCountLegacy(t *testing.T) {
	lines := mustParse(t, "A=ev://a\nB=en://b\nC=ev://global/c\nD=ev:/not-a-ref\n")
	assert.Equal(t, 2, CountLegacy(lines))
	assert.Zero(t, CountLegacy(mustParse(t, "A=en://a\n")))
}

func TestRewriteLegacy(t *testing.T) {
	input := "# uses ev:// in a comment\nA=ev://a\nB=en://b\nC=ev://global/c\nD=see ev://docs\nE=ev://e\r\n"

	out, changed, err := RewriteLegacy(input)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)
	assert.Equal(t, "# uses ev:// in a comment\nA=en://a\nB=en://b\nC=en://global/c\nD=see ev://docs\nE=en://e\r\n", out)

	lines := mustParse(t, out)
	assert.Zero(t, CountLegacy(lines))
}

func TestRewriteLegacy_NoChanges(t *testing.T) {
	input := "A=en://a\nB=1"

	out, changed, err := RewriteLegacy(input)
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, input, out)
}

func TestRewriteLegacy_Malformed(t *testing.T) {
	_, _, err := RewriteLegacy("A=ev://a\nbroken\n")
	assert.ErrorIs(t, err, kerrors.ErrMalformedTemplateLine)
}
