package visuals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorCSS(t *testing.T) {
	assert.Equal(t, "#ff0000", ColorCSS("red", 1))
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", ColorCSS("#f00", 0.5))
	assert.Equal(t, "not-a-color(", ColorCSS("not-a-color(", 1))
}

func TestCloneIsIndependent(t *testing.T) {
	a := DefaultText()
	b := a.Clone()
	b.TextFontSize.Set("20px")
	assert.Equal(t, "13px", a.TextFontSize.Value())
	assert.Equal(t, "20px", b.TextFontSize.Value())
}
