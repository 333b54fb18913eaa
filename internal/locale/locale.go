package locale

import "strings"

const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"

	// Default 是译文缺失时的回退语言
	Default = LanguageEnglish
)

// Supported lists every language the gallery stores translations for.
var Supported = []string{LanguageEnglish, LanguageChinese}

// NormalizeLanguage maps a raw language tag to a supported language, or "".
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage picks a supported language from an Accept-Language header.
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "zh") {
		return LanguageChinese
	}
	if strings.Contains(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// IsSupported reports whether the language has a translation slot.
func IsSupported(language string) bool {
	for _, supported := range Supported {
		if language == supported {
			return true
		}
	}
	return false
}
