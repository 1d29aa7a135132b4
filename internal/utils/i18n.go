package utils

// Server-side strings are limited to the handful of messages the API emits
// directly; everything user-facing lives in the frontend bundles.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":      "ok",
		"error.internal": "internal error",
		"error.notfound": "not found",
	},
	"fr": {
		"health.ok":      "ok",
		"error.internal": "erreur interne",
		"error.notfound": "introuvable",
	},
}

// T resolves key in the given locale, falling back to English and finally to
// the key itself.
func T(locale, key string) string {
	if v, ok := translations[locale][key]; ok {
		return v
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
