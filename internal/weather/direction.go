package weather

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// ResolveDirection maps a bearing in degrees to one of 16 compass points.
// Bearings outside [0, 360) wrap around.
func ResolveDirection(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return compassPoints[0]
	}
	i := int(math.Round(deg/22.5)) % 16
	if i < 0 {
		i += 16
	}
	return compassPoints[i]
}
