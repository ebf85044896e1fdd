package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesize(t *testing.T) {
	assert.Equal(t, Audio{Text: "नमस्ते", LanguageCode: "hi-IN", UseBrowserTTS: true}, Synthesize("नमस्ते", "Hindi"))
	assert.Equal(t, "en-US", Synthesize("hello", "Klingon").LanguageCode)
	assert.Equal(t, "en-US", Synthesize("hello", "").LanguageCode)
}

func TestVoices(t *testing.T) {
	voices := Voices()

	assert.Len(t, voices, 6)
	assert.Equal(t, VoiceSet{Code: "en-US", Voices: []string{"en-US-Standard-A", "en-US-Standard-B"}}, voices["English"])
	assert.Equal(t, VoiceSet{Code: "hi-IN", Voices: []string{"hi-IN-Standard-A", "hi-IN-Standard-B"}}, voices["Hindi"])
	assert.Equal(t, VoiceSet{Code: "kn-IN", Voices: []string{"kn-IN-Standard-A"}}, voices["Kannada"])
	assert.Equal(t, []string{"ta-IN-Standard-A"}, voices["Tamil"].Voices)
}
