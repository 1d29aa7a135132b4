package services

import (
	"math"
	"sort"
	"strings"
)

// JobOffer is the subset of an external job posting the matcher looks at.
type JobOffer struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ContractType    string `json:"contract_type,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`
	Location        string `json:"location,omitempty"`
}

// RoleProfile is the competency vector derived from the user's primary role.
type RoleProfile struct {
	Role            string
	Keywords        []string
	ContractTypes   []string
	ExperienceLevel string
}

// MatcherConfig tunes the weighted keyword heuristic. Title hits count more
// than description hits; exact contract/experience matches add fixed bonuses.
type MatcherConfig struct {
	TitleWeight      float64
	BodyWeight       float64
	ContractBonus    float64
	ExperienceBonus  float64
	BothFieldsFactor float64
}

// DefaultMatcherConfig mirrors the product's historical tuning.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		TitleWeight:      0.55,
		BodyWeight:       0.45,
		ContractBonus:    5,
		ExperienceBonus:  5,
		BothFieldsFactor: 1.2,
	}
}

// roleProfiles is the fixed role -> keyword table. Lookup is case-insensitive
// on the role name.
var roleProfiles = map[string]RoleProfile{
	"developer": {
		Role:            "developer",
		Keywords:        []string{"développeur", "developer", "software", "backend", "frontend", "fullstack", "api", "code", "agile"},
		ContractTypes:   []string{"CDI", "CDD"},
		ExperienceLevel: "",
	},
	"data analyst": {
		Role:            "data analyst",
		Keywords:        []string{"data", "analyste", "analyst", "sql", "python", "dashboard", "statistique", "reporting"},
		ContractTypes:   []string{"CDI", "CDD"},
		ExperienceLevel: "",
	},
	"cybersecurity": {
		Role:            "cybersecurity",
		Keywords:        []string{"cybersécurité", "security", "sécurité", "soc", "pentest", "audit", "iso 27001", "réseau"},
		ContractTypes:   []string{"CDI"},
		ExperienceLevel: "",
	},
	"infrastructure": {
		Role:            "infrastructure",
		Keywords:        []string{"infrastructure", "devops", "cloud", "linux", "réseau", "kubernetes", "système", "administrateur"},
		ContractTypes:   []string{"CDI", "CDD"},
		ExperienceLevel: "",
	},
}

// RoleProfileFor resolves the keyword profile of a role name.
func RoleProfileFor(role string) (RoleProfile, error) {
	p, ok := roleProfiles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return RoleProfile{}, NewNotFoundError("unknown role " + role)
	}
	return p, nil
}

// MatchScore computes the deterministic 0..100 relevance of an offer for a
// role profile. The score only orders search results; it gates nothing.
func MatchScore(cfg MatcherConfig, profile RoleProfile, offer JobOffer) int {
	if len(profile.Keywords) == 0 {
		return 0
	}
	title := strings.ToLower(offer.Title)
	body := strings.ToLower(offer.Description)

	titleHits, bodyHits := 0, 0
	for _, kw := range profile.Keywords {
		k := strings.ToLower(kw)
		if strings.Contains(title, k) {
			titleHits++
		}
		if strings.Contains(body, k) {
			bodyHits++
		}
	}

	n := float64(len(profile.Keywords))
	titleScore := float64(titleHits) / n
	bodyScore := float64(bodyHits) / n
	weighted := (titleScore*cfg.TitleWeight + bodyScore*cfg.BodyWeight) / (cfg.TitleWeight + cfg.BodyWeight)
	if titleHits > 0 && bodyHits > 0 {
		weighted = math.Min(1, weighted*cfg.BothFieldsFactor)
	}
	score := weighted * 90

	for _, ct := range profile.ContractTypes {
		if strings.EqualFold(ct, offer.ContractType) {
			score += cfg.ContractBonus
			break
		}
	}
	if profile.ExperienceLevel != "" && strings.EqualFold(profile.ExperienceLevel, offer.ExperienceLevel) {
		score += cfg.ExperienceBonus
	}

	return int(math.Round(clampFloat(score, 0, 100)))
}

// RankOffers scores every offer and returns them sorted by descending score,
// ties broken by offer ID for a stable order.
func RankOffers(cfg MatcherConfig, profile RoleProfile, offers []JobOffer) []ScoredOffer {
	out := make([]ScoredOffer, 0, len(offers))
	for _, o := range offers {
		out = append(out, ScoredOffer{Offer: o, Score: MatchScore(cfg, profile, o)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Offer.ID < out[j].Offer.ID
	})
	return out
}

// ScoredOffer pairs an offer with its match score.
type ScoredOffer struct {
	Offer JobOffer `json:"offer"`
	Score int      `json:"score"`
}
