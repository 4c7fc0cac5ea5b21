// conf/locale.go contains all languages the content catalog supports

package conf

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// LanguageInfo describes one supported content language.
type LanguageInfo struct {
	Code       string `json:"code"`       // BCP 47 language code
	Name       string `json:"name"`       // English name
	NativeName string `json:"nativeName"` // endonym
}

// IMPORTANT: When adding or modifying language entries, also update the
// seed fixtures in cmd/seed so local development data covers the new language.

// supportedLanguages holds the closed set of languages content may be
// translated into: the 22 scheduled languages of India plus English.
var supportedLanguages = map[string]LanguageInfo{
	"as":  {Code: "as", Name: "Assamese", NativeName: "অসমীয়া"},
	"bn":  {Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
	"brx": {Code: "brx", Name: "Bodo", NativeName: "बड़ो"},
	"doi": {Code: "doi", Name: "Dogri", NativeName: "डोगरी"},
	"en":  {Code: "en", Name: "English", NativeName: "English"},
	"gu":  {Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી"},
	"hi":  {Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	"kn":  {Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	"kok": {Code: "kok", Name: "Konkani", NativeName: "कोंकणी"},
	"ks":  {Code: "ks", Name: "Kashmiri", NativeName: "كٲشُر"},
	"mai": {Code: "mai", Name: "Maithili", NativeName: "मैथिली"},
	"ml":  {Code: "ml", Name: "Malayalam", NativeName: "മലയാളം"},
	"mni": {Code: "mni", Name: "Manipuri", NativeName: "ꯃꯩꯇꯩꯂꯣꯟ"},
	"mr":  {Code: "mr", Name: "Marathi", NativeName: "मराठी"},
	"ne":  {Code: "ne", Name: "Nepali", NativeName: "नेपाली"},
	"or":  {Code: "or", Name: "Odia", NativeName: "ଓଡ଼ିଆ"},
	"pa":  {Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	"sa":  {Code: "sa", Name: "Sanskrit", NativeName: "संस्कृतम्"},
	"sat": {Code: "sat", Name: "Santali", NativeName: "ᱥᱟᱱᱛᱟᱲᱤ"},
	"sd":  {Code: "sd", Name: "Sindhi", NativeName: "سنڌي"},
	"ta":  {Code: "ta", Name: "Tamil", NativeName: "தமிழ்"},
	"te":  {Code: "te", Name: "Telugu", NativeName: "తెలుగు"},
	"ur":  {Code: "ur", Name: "Urdu", NativeName: "اردو"},
}

// SupportedLanguages returns the language catalog sorted by code.
func SupportedLanguages() []LanguageInfo {
	languages := make([]LanguageInfo, 0, len(supportedLanguages))
	for _, info := range supportedLanguages {
		languages = append(languages, info)
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Code < languages[j].Code
	})
	return languages
}

// IsSupportedLanguage reports whether code names a supported content language.
func IsSupportedLanguage(code string) bool {
	_, ok := supportedLanguages[code]
	return ok
}

// NormalizeLanguageCode canonicalizes a client-supplied language code
// ("HI", "en-US") to a supported base language code. It returns an error
// for malformed tags and for well-formed tags outside the catalog.
func NormalizeLanguageCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("malformed language code %q: %w", code, err)
	}

	// Region and script subtags collapse to the base language, so
	// "en-US" and "pa-Guru-IN" resolve to catalog entries.
	base, _ := tag.Base()
	normalized := base.String()
	if !IsSupportedLanguage(normalized) {
		return "", fmt.Errorf("unsupported language: %s", code)
	}
	return normalized, nil
}
