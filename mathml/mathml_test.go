package mathml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTeX(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"power", `<math><msup><mi>x</mi><mn>2</mn></msup></math>`, `{x}^{2}`},
		{"fraction", `<math xmlns="http://www.w3.org/1998/Math/MathML"><mfrac><mn>1</mn><mi>n</mi></mfrac></math>`, `\frac{1}{n}`},
		{"row", `<mrow><mi>a</mi><mo>+</mo><mi>b</mi></mrow>`, `a+b`},
		{"subsup", `<msubsup><mi>x</mi><mi>i</mi><mn>2</mn></msubsup>`, `{x}_{i}^{2}`},
		{"root", `<mroot><mi>x</mi><mn>3</mn></mroot>`, `\sqrt[3]{x}`},
		{"sqrt", `<msqrt><mi>x</mi><mo>−</mo><mn>1</mn></msqrt>`, `\sqrt{x-1}`},
		{"function", `<mrow><mi>sin</mi><mi>θ</mi></mrow>`, `\mathrm{sin}\theta`},
		{"text", `<mtext>if x_1</mtext>`, `\text{if x\_1}`},
		{"times", `<mrow><mn>2</mn><mo>×</mo><mn>3</mn></mrow>`, `2\times 3`},
	}
	for _, tc := range cases {
		got, err := ToTeX(tc.in)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestToTeXErrors(t *testing.T) {
	_, err := ToTeX(`<math><msup><mi>x</mi></msup></math>`)
	assert.ErrorContains(t, err, "msup")

	_, err = ToTeX(`<math><mtable/></math>`)
	assert.ErrorContains(t, err, "mtable")

	_, err = ToTeX(`<math><mi>x</math>`)
	assert.Error(t, err)
}

func TestToTeXSkipsAnnotations(t *testing.T) {
	got, err := ToTeX(`<math><semantics><mi>y</mi><annotation encoding="TeX">y</annotation></semantics></math>`)
	require.NoError(t, err)
	assert.Equal(t, "y", got)
}
