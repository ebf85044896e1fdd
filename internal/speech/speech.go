// Package speech prepares assistant replies for browser-side text-to-speech.
package speech

import "strings"

const fallbackCode = "en-US"

// Audio tells the client which language to speak the text in. Synthesis
// happens in the browser.
type Audio struct {
	Text          string `json:"text"`
	LanguageCode  string `json:"languageCode"`
	UseBrowserTTS bool   `json:"useBrowserTTS"`
}

// VoiceSet lists the voices available for one language.
type VoiceSet struct {
	Code   string   `json:"code"`
	Voices []string `json:"voices"`
}

var languageCodes = map[string]string{
	"English": "en-US",
	"Hindi":   "hi-IN",
	"Marathi": "mr-IN",
	"Tamil":   "ta-IN",
	"Telugu":  "te-IN",
	"Kannada": "kn-IN",
}

// secondVoice lists languages offering a "-Standard-B" voice.
var secondVoice = map[string]bool{
	"English": true,
	"Hindi":   true,
}

// LanguageCode maps a language name to its BCP-47 code, falling back to en-US.
func LanguageCode(language string) string {
	if code, ok := languageCodes[strings.TrimSpace(language)]; ok {
		return code
	}
	return fallbackCode
}

// Synthesize wraps text for browser playback in the given language.
func Synthesize(text, language string) Audio {
	return Audio{
		Text:          text,
		LanguageCode:  LanguageCode(language),
		UseBrowserTTS: true,
	}
}

// Voices returns the voice catalogue keyed by language name.
func Voices() map[string]VoiceSet {
	out := make(map[string]VoiceSet, len(languageCodes))
	for name, code := range languageCodes {
		voices := []string{code + "-Standard-A"}
		if secondVoice[name] {
			voices = append(voices, code+"-Standard-B")
		}
		out[name] = VoiceSet{Code: code, Voices: voices}
	}
	return out
}
