package types

// LanguageCodes lists every language the assistant can answer in.
var LanguageCodes = []string{"en", "hi", "te", "ta", "es", "zh-cn", "fr", "de", "pt", "ru"}

// PreferencesResponse is the JSON shape for GET/PATCH /api/self/v1/preferences.
type PreferencesResponse struct {
	Language  string   `json:"language"`
	Available []string `json:"available"`
}

type PreferencesPatchRequest struct {
	Language *string `json:"language"`
}
