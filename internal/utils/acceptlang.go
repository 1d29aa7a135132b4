package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale picks the locale for a request. Precedence: explicit query
// param, then Accept-Language by q-value, then the default, then the first
// supported locale. Region subtags collapse to their base language, so
// "fr-CA" resolves to "fr".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}

	resolve := func(lang string) (string, bool) {
		l := strings.ToLower(strings.TrimSpace(lang))
		if l == "" {
			return "", false
		}
		if _, ok := sup[l]; ok {
			return l, true
		}
		if base, _, found := strings.Cut(l, "-"); found {
			if _, ok := sup[base]; ok {
				return base, true
			}
		}
		return "", false
	}

	if l, ok := resolve(queryLang); ok {
		return l
	}

	type candidate struct {
		lang string
		q    float64
	}
	var cands []candidate
	for _, part := range strings.Split(acceptLang, ",") {
		lang, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		l, ok := resolve(lang)
		if !ok {
			continue
		}
		q := 1.0
		if key, val, found := strings.Cut(strings.TrimSpace(params), "="); found && strings.TrimSpace(key) == "q" {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil && parsed >= 0 && parsed <= 1 {
				q = parsed
			}
		}
		cands = append(cands, candidate{lang: l, q: q})
	}
	if len(cands) > 0 {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
		return cands[0].lang
	}

	if l, ok := resolve(def); ok {
		return l
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "en"
}
