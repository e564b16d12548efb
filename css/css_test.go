package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFontShorthand(t *testing.T) {
	f, err := ParseFont(`italic bold 13px "Latin Modern", serif`)
	require.NoError(t, err)
	assert.Equal(t, "italic", f.Style)
	assert.Equal(t, "bold", f.Weight)
	assert.Equal(t, Length{Value: 13, Unit: UnitPX}, f.Size)
	assert.Equal(t, []string{"Latin Modern", "serif"}, f.Families)
	assert.Equal(t, "Latin Modern", f.Family())
}

func TestParseFontUnquotedFamilyAndNormalKeyword(t *testing.T) {
	f, err := ParseFont("normal 9.1px Latin Modern Sans")
	require.NoError(t, err)
	assert.Equal(t, "normal", f.Style)
	assert.Equal(t, "Latin Modern Sans", f.Family())
	assert.InDelta(t, 9.1, f.Size.Value, 1e-9)
	assert.Equal(t, `9.1px "Latin Modern Sans"`, f.String())
}

func TestParseFontRejectsUnknownKeyword(t *testing.T) {
	_, err := ParseFont("wobbly 13px serif")
	assert.Error(t, err)
	_, err = ParseFont("bold serif")
	assert.Error(t, err)
}

func TestParseFontSize(t *testing.T) {
	l, ok := ParseFontSize("1.2em")
	require.True(t, ok)
	assert.Equal(t, UnitEM, l.Unit)
	assert.InDelta(t, 15.6, l.Pixels(13), 1e-9)

	l, ok = ParseFontSize("12")
	require.True(t, ok)
	assert.Equal(t, UnitPX, l.Unit)

	l, ok = ParseFontSize("12pt")
	require.True(t, ok)
	assert.InDelta(t, 16, l.Pixels(13), 1e-9)

	_, ok = ParseFontSize("big")
	assert.False(t, ok)
	_, ok = ParseFontSize("3furlong")
	assert.False(t, ok)
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#0F62FE", Color{0x0f, 0x62, 0xfe, 1}},
		{"#333", Color{0x33, 0x33, 0x33, 1}},
		{"rgb(10, 20, 30)", Color{10, 20, 30, 1}},
		{"rgba(10, 20, 30, 0.5)", Color{10, 20, 30, 0.5}},
		{"rgb(100% 0% 0% / 50%)", Color{255, 0, 0, 0.5}},
		{"Navy", Color{0, 0, 128, 1}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"#12", "rgb(1, 2)", "chartreuse-ish", ""} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "#0a141e", Color{10, 20, 30, 1}.String())
	assert.Equal(t, "rgba(10, 20, 30, 0.25)", Color{10, 20, 30, 1}.WithAlpha(0.25).String())
}
