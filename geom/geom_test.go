package geom

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBoxUnionAndTranslate(t *testing.T) {
	a := XYWH(0, 0, 10, 5)
	b := XYWH(8, -2, 4, 4)
	u := a.Union(b)
	assert.Equal(t, XYWH(0, -2, 12, 7), u)

	moved := u.Translate(3, 4)
	assert.Equal(t, 3.0, moved.X())
	assert.Equal(t, 2.0, moved.Y())
	assert.Equal(t, 12.0, moved.Width())
	assert.Equal(t, 7.0, moved.Height())
	assert.Equal(t, 15.0, moved.Right())
	assert.Equal(t, 9.0, moved.Bottom())
}

func TestRectBBoxRoundTrips(t *testing.T) {
	b := XYWH(1, 2, 30, 40)
	assert.Equal(t, b, b.Rect().BBox())
}

func TestRotateAboutQuarterTurn(t *testing.T) {
	r := XYWH(0, 0, 10, 2).Rect()
	got := RotateAbout(r, 0, 0, math.Pi/2)
	// y 轴向下，正角度为顺时针：(10,0) 转到 (0,10)
	corners := got.Corners()
	assert.InDelta(t, 0, corners[1].X, 1e-9)
	assert.InDelta(t, 10, corners[1].Y, 1e-9)

	bb := got.BBox()
	assert.InDelta(t, 2, bb.Width(), 1e-9)
	assert.InDelta(t, 10, bb.Height(), 1e-9)
}

func TestRotateAboutKeepsCenterFixed(t *testing.T) {
	r := XYWH(0, 0, 4, 4).Rect()
	bb := RotateAbout(r, 2, 2, 0.7).BBox()
	assert.InDelta(t, 2, (bb.Left()+bb.Right())/2, 1e-9)
	assert.InDelta(t, 2, (bb.Top()+bb.Bottom())/2, 1e-9)
}

func TestRotateAboutZeroIsIdentity(t *testing.T) {
	r := XYWH(3, 4, 5, 6).Rect()
	got := RotateAbout(r, 1, 1, 0)
	for i, p := range got.Corners() {
		assert.InDelta(t, r[i].X, p.X, 1e-12)
		assert.InDelta(t, r[i].Y, p.Y, 1e-12)
	}
}

func TestBBoxJSON(t *testing.T) {
	data, err := json.Marshal(XYWH(1, 2, 3, 4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"left":1,"top":2,"right":4,"bottom":6}`, string(data))
}
