package bulletin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discussionProduct is a trimmed area forecast discussion with AFD section
// headers, hard-wrapped paragraphs, and "&&" separators.
const discussionProduct = `000
FXAK67 PAJK 221030
AFDAJK

Area Forecast Discussion
National Weather Service Juneau AK
230 AM AKDT Sat Aug 22 2026

.SHORT TERM...A front moving across the panhandle this morning
will bring rain to all areas by afternoon. Winds ahead of the
front remain southeasterly.

Gusty conditions are expected near Lynn Canal.

&&

.LONG TERM...High pressure builds Sunday behind the front,
bringing a drier pattern through midweek.

&&

$$`

func TestReformat(t *testing.T) {
	t.Run("discussion product", func(t *testing.T) {
		paragraphs := Reformat(discussionProduct)

		require.NotEmpty(t, paragraphs)

		// Hard-wrapped lines are joined into flowing text.
		assert.Contains(t, paragraphs, ".SHORT TERM...A front moving across the panhandle this morning will bring rain to all areas by afternoon. Winds ahead of the front remain southeasterly.")
		assert.Contains(t, paragraphs, "Gusty conditions are expected near Lynn Canal.")
		assert.Contains(t, paragraphs, ".LONG TERM...High pressure builds Sunday behind the front, bringing a drier pattern through midweek.")
	})

	t.Run("separators are dropped", func(t *testing.T) {
		for _, p := range Reformat(discussionProduct) {
			assert.NotEqual(t, "&&", p)
			assert.NotEqual(t, "$$", p)
		}
	})

	t.Run("section header starts a new paragraph", func(t *testing.T) {
		text := "lead-in line\n.MARINE...Small craft advisory remains\nin effect."

		paragraphs := Reformat(text)

		require.Len(t, paragraphs, 2)
		assert.Equal(t, "lead-in line", paragraphs[0])
		assert.Equal(t, ".MARINE...Small craft advisory remains in effect.", paragraphs[1])
	})

	t.Run("windows line endings", func(t *testing.T) {
		paragraphs := Reformat("line one\r\nline two\r\n\r\nsecond paragraph\r\n")

		require.Len(t, paragraphs, 2)
		assert.Equal(t, "line one line two", paragraphs[0])
		assert.Equal(t, "second paragraph", paragraphs[1])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Reformat(""))
	})
}
