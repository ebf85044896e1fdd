package advisory

import (
	"fmt"
	"strings"
)

// CropPreference is the temperature band a crop grows well in.
type CropPreference struct {
	MinC  float64
	MaxC  float64
	Ideal string
}

var cropPreferences = map[string]CropPreference{
	"rice":      {MinC: 20, MaxC: 35, Ideal: "25-30°C"},
	"wheat":     {MinC: 10, MaxC: 25, Ideal: "15-20°C"},
	"tomato":    {MinC: 15, MaxC: 30, Ideal: "20-25°C"},
	"cotton":    {MinC: 20, MaxC: 35, Ideal: "25-30°C"},
	"sugarcane": {MinC: 20, MaxC: 35, Ideal: "25-32°C"},
	"maize":     {MinC: 18, MaxC: 32, Ideal: "22-28°C"},
}

// CropPreferenceFor looks a crop up by exact name, ignoring case only.
func CropPreferenceFor(crop string) (CropPreference, bool) {
	pref, ok := cropPreferences[strings.ToLower(crop)]
	return pref, ok
}

// LookupCropAdvice says whether tempC suits the named crop. Unknown crops yield "".
// The crop name is echoed back as the caller wrote it.
func LookupCropAdvice(crop string, tempC float64) string {
	pref, ok := CropPreferenceFor(crop)
	if !ok {
		return ""
	}

	switch {
	case tempC < pref.MinC:
		return fmt.Sprintf("⚠️ Temperature below ideal range for %s. Ideal: %s", crop, pref.Ideal)
	case tempC > pref.MaxC:
		return fmt.Sprintf("⚠️ Temperature above ideal range for %s. Ideal: %s", crop, pref.Ideal)
	default:
		return fmt.Sprintf("✅ Temperature is ideal for %s growth (%s)", crop, pref.Ideal)
	}
}
