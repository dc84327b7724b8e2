package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceNm_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceNm(40.0, -74.0, 40.0, -74.0))
}

func TestDistanceNm_Symmetric(t *testing.T) {
	d1 := DistanceNm(51.4706, -0.4619, 40.6413, -73.7781) // EGLL -> KJFK
	d2 := DistanceNm(40.6413, -73.7781, 51.4706, -0.4619)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceNm_OneDegreeLongitudeAtEquator(t *testing.T) {
	// 1 degree of longitude at the equator is about 60 nm
	d := DistanceNm(0, 0, 0, 1)
	assert.InDelta(t, 60.0, d, 0.6)
}

func TestDistanceNm_KnownRoute(t *testing.T) {
	// EGLL to KJFK is roughly 3000 nm
	d := DistanceNm(51.4706, -0.4619, 40.6413, -73.7781)
	assert.InDelta(t, 3000, d, 50)
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(40.0, -74.0, 10)

	assert.InDelta(t, 40.0-10.0/60.0, box.MinLat, 1e-9)
	assert.InDelta(t, 40.0+10.0/60.0, box.MaxLat, 1e-9)
	assert.InDelta(t, -74.0-10.0/60.0, box.MinLon, 1e-9)
	assert.InDelta(t, -74.0+10.0/60.0, box.MaxLon, 1e-9)
}
