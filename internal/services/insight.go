package services

// Insight types, in descending display priority.
const (
	InsightStrength  = "strength"
	InsightChallenge = "challenge"
	InsightCareer    = "career"
	InsightLearning  = "learning"
)

// Insight is one rule-derived observation. The whole set is regenerated on
// every profile recomputation; insights are never merged or appended.
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// InsightInput captures everything the rule table keys on.
type InsightInput struct {
	Dominant            string
	ProfileCode         string
	BehavioralCompleted bool
	RiasecTopCode       string
}

type insightRule struct {
	Type        string
	Title       string
	Description string
	Priority    int
}

var strengthRules = map[string][]insightRule{
	"form": {
		{InsightStrength, "Structural thinking", "You decompose problems into well-defined parts and reason about how they fit together.", 1},
		{InsightChallenge, "Tolerance for ambiguity", "Loosely specified situations can feel uncomfortable; practice deciding with partial information.", 2},
	},
	"color": {
		{InsightStrength, "Pattern sensitivity", "You pick up on context, mood and weak signals that others miss.", 1},
		{InsightChallenge, "Sustained routine", "Repetitive, low-variation work drains you faster than most; build in variety.", 2},
	},
	"volume": {
		{InsightStrength, "Spatial reasoning", "You manipulate systems and volumes mentally and excel at hands-on problem solving.", 1},
		{InsightChallenge, "Verbal restitution", "Translating what you grasp intuitively into words takes deliberate effort.", 2},
	},
	"sound": {
		{InsightStrength, "Sequential memory", "You retain and replay ordered information with unusual fidelity.", 1},
		{InsightChallenge, "Visual overload", "Dense visual material slows you down; prefer spoken or written walkthroughs.", 2},
	},
}

var careerRulesByRiasecLead = map[byte]insightRule{
	'R': {InsightCareer, "Build tangible things", "Roles with concrete, physical or technical output fit your interest profile.", 3},
	'I': {InsightCareer, "Investigate and model", "Research, analysis and engineering roles match your investigative lean.", 3},
	'A': {InsightCareer, "Create and express", "Design and content roles reward your artistic orientation.", 3},
	'S': {InsightCareer, "Work through people", "Teaching, care and support roles align with your social orientation.", 3},
	'E': {InsightCareer, "Drive and persuade", "Entrepreneurial and commercial roles suit your enterprising lean.", 3},
	'C': {InsightCareer, "Organize and verify", "Structured, process-driven roles match your conventional strength.", 3},
}

var learningRuleByDominant = map[string]insightRule{
	"form":   {InsightLearning, "Learn in sequence", "Favor step-by-step material with explicit structure over exploratory formats.", 4},
	"color":  {InsightLearning, "Learn by association", "Favor rich visual material and concept maps over linear text.", 4},
	"volume": {InsightLearning, "Learn by doing", "Favor labs, simulations and projects over passive formats.", 4},
	"sound":  {InsightLearning, "Learn by listening", "Favor spoken explanations, discussion and recall-out-loud techniques.", 4},
}

// GenerateInsights evaluates the rule table for the given input. Output order
// is deterministic: strengths and challenges first, then career, then learning.
func GenerateInsights(in InsightInput) ([]Insight, error) {
	rules, ok := strengthRules[in.Dominant]
	if !ok {
		return nil, NewInvalidError("unknown dominant cognition " + in.Dominant)
	}
	out := make([]Insight, 0, 4)
	for _, r := range rules {
		out = append(out, Insight(r))
	}
	if in.RiasecTopCode != "" {
		if r, ok := careerRulesByRiasecLead[in.RiasecTopCode[0]]; ok {
			out = append(out, Insight(r))
		}
	}
	if in.BehavioralCompleted {
		if r, ok := learningRuleByDominant[in.Dominant]; ok {
			out = append(out, Insight(r))
		}
	}
	return out, nil
}
