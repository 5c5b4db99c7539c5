package attr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadString(t *testing.T) {
	read := func(src string) string {
		return ReadString(strings.NewReader(src))
	}

	t.Run("Plain", func(t *testing.T) {
		assert.Equal(t, "hello", read(`"hello"`))
		assert.Equal(t, "hello", read(`   junk before "hello" after`))
		assert.Equal(t, "", read(`""`))
	})

	t.Run("SimpleEscapes", func(t *testing.T) {
		assert.Equal(t, "\a\b\f\n\r\t\v", read(`"\a\b\f\n\r\t\v"`))
		assert.Equal(t, `say "hi"`, read(`"say \"hi\""`))
		assert.Equal(t, `back\slash`, read(`"back\\slash"`))
		// Unknown escapes pass the character through.
		assert.Equal(t, "q", read(`"\q"`))
	})

	t.Run("Octal", func(t *testing.T) {
		assert.Equal(t, "\x00", read(`"\0"`))
		assert.Equal(t, "\x07", read(`"\7"`))
		assert.Equal(t, "\x0b", read(`"\13"`))     // two digits
		assert.Equal(t, "\x53", read(`"\123"`))    // three digits
		assert.Equal(t, "\x0a8", read(`"\128"`))   // '8' ends the octal run
		assert.Equal(t, "\x533", read(`"\1233"`))  // at most three digits
	})

	t.Run("Hex", func(t *testing.T) {
		assert.Equal(t, "\x41", read(`"\x41"`))
		assert.Equal(t, "A!", read(`"\x41!"`))
		assert.Equal(t, "\xff", read(`"\xff"`))
		// Digits accumulate into one byte; overflow wraps.
		assert.Equal(t, "\x23", read(`"\x123"`))
	})

	t.Run("Unterminated", func(t *testing.T) {
		assert.Equal(t, "", read(`"oops`))
		assert.Equal(t, "", read(`no quote at all`))
		assert.Equal(t, "", read(`"trailing backslash\`))
	})
}

func TestParse(t *testing.T) {
	t.Run("Flag", func(t *testing.T) {
		a, err := Parse("@leon")
		require.NoError(t, err)
		assert.Equal(t, Flag, a.Kind)
		assert.Empty(t, a.Key)
		assert.Empty(t, a.Value)
	})

	t.Run("KeyValue", func(t *testing.T) {
		a, err := Parse(`@leonkv "type" "engine"`)
		require.NoError(t, err)
		assert.Equal(t, KeyValue, a.Kind)
		assert.Equal(t, "type", a.Key)
		assert.Equal(t, "engine", a.Value)
	})

	t.Run("EscapedKeyValue", func(t *testing.T) {
		a, err := Parse(`@leonkv "tab\there" "line\nbreak"`)
		require.NoError(t, err)
		assert.Equal(t, "tab\there", a.Key)
		assert.Equal(t, "line\nbreak", a.Value)
	})

	t.Run("ValueAsFlagShorthand", func(t *testing.T) {
		// LEON_V(value) expands to `@leonkv "<value>" "true"`.
		a, err := Parse(`@leonkv "editor_only" "true"`)
		require.NoError(t, err)
		assert.Equal(t, "editor_only", a.Key)
		assert.Equal(t, "true", a.Value)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, src := range []string{
			`@leonkv`,
			`@leonkv "key"`,
			`@leonkv "" "value"`,
			`@leonkv "key" ""`,
			`@leonkv "key" "unterminated`,
			`@something-else entirely`,
		} {
			_, err := Parse(src)
			assert.ErrorIs(t, err, ErrMalformed, "input %q", src)
		}
	})
}
