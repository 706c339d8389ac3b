package tools_test

import (
	"strings"
	"testing"

	"github.com/officekit/toolbox-api/internal/tools/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeech_Validate(t *testing.T) {
	t.Run("defaults are valid once text is set", func(t *testing.T) {
		p := speech.DefaultParams()
		p.Text = "Hello world"
		assert.NoError(t, p.Validate())
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		p := speech.DefaultParams()
		assert.Error(t, p.Validate())
	})

	t.Run("rate bounds", func(t *testing.T) {
		p := speech.DefaultParams()
		p.Text = "x"

		p.Rate = 0.05
		assert.Error(t, p.Validate())

		p.Rate = 2.5
		assert.Error(t, p.Validate())

		p.Rate = 0.1
		assert.NoError(t, p.Validate())

		p.Rate = 2.0
		assert.NoError(t, p.Validate())
	})

	t.Run("pitch bounds", func(t *testing.T) {
		p := speech.DefaultParams()
		p.Text = "x"

		p.Pitch = -0.1
		assert.Error(t, p.Validate())

		p.Pitch = 2.1
		assert.Error(t, p.Validate())

		p.Pitch = 0
		assert.NoError(t, p.Validate())
	})

	t.Run("volume bounds", func(t *testing.T) {
		p := speech.DefaultParams()
		p.Text = "x"

		p.Volume = 1.1
		assert.Error(t, p.Validate())

		p.Volume = -0.1
		assert.Error(t, p.Validate())

		p.Volume = 0
		assert.NoError(t, p.Validate())
	})
}

func TestSpeech_Document(t *testing.T) {
	t.Run("renders a speak document", func(t *testing.T) {
		p := speech.Params{Text: "Good morning", Rate: 1.0, Pitch: 1.0, Volume: 1.0}
		out, err := speech.Document(p, "")

		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `<?xml`)
		assert.Contains(t, doc, `<speak version="1.0"`)
		assert.Contains(t, doc, `xmlns="http://www.w3.org/2001/10/synthesis"`)
		assert.Contains(t, doc, `xml:lang="en-US"`)
		assert.Contains(t, doc, "Good morning")
	})

	t.Run("neutral values render as zero change", func(t *testing.T) {
		p := speech.Params{Text: "x", Rate: 1.0, Pitch: 1.0, Volume: 1.0}
		out, err := speech.Document(p, "")

		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `rate="+0%"`)
		assert.Contains(t, doc, `pitch="+0%"`)
		assert.Contains(t, doc, `volume="100%"`)
	})

	t.Run("rate and pitch are relative percentages", func(t *testing.T) {
		p := speech.Params{Text: "x", Rate: 1.5, Pitch: 0.8, Volume: 0.5}
		out, err := speech.Document(p, "")

		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `rate="+50%"`)
		assert.Contains(t, doc, `pitch="-20%"`)
		assert.Contains(t, doc, `volume="50%"`)
	})

	t.Run("voice name wraps the text", func(t *testing.T) {
		p := speech.Params{Text: "Hei", Voice: "nb-NO-Standard-A", Rate: 1, Pitch: 1, Volume: 1}
		out, err := speech.Document(p, "nb-NO")

		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `name="nb-NO-Standard-A"`)
		assert.Contains(t, doc, `xml:lang="nb-NO"`)
		assert.Contains(t, doc, "Hei")
	})

	t.Run("text is xml escaped", func(t *testing.T) {
		p := speech.Params{Text: "a < b & c", Rate: 1, Pitch: 1, Volume: 1}
		out, err := speech.Document(p, "")

		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, "a &lt; b &amp; c")
		assert.False(t, strings.Contains(doc, "a < b"))
	})

	t.Run("invalid params are rejected", func(t *testing.T) {
		p := speech.Params{Text: "", Rate: 1, Pitch: 1, Volume: 1}
		_, err := speech.Document(p, "")
		assert.Error(t, err)
	})
}
