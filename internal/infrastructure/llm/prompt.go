package llm

import "strings"

// scoringPrompt anchors the three tone components to the December 2025 SEP
// framework. The model must reply with bare JSON.
const scoringPrompt = `You are a quantitative Fed policy analyst. Score this FOMC speech on three components anchored to the December 2025 SEP framework.

NEUTRAL RATE FRAMEWORK:
- Estimated neutral rate: 3.0% (Dec 2025 SEP median)
- Current fed funds rate: 4.25-4.50% (midpoint 4.375%)
- Policy is +137.5bps above neutral = moderately restrictive
- Speaker: {member_name}

SCORE THREE COMPONENTS (-100 to +100, positive = hawkish):

STANCE_SCORE — How does speaker characterize policy restrictiveness?
  "Significantly/substantially restrictive" → -60 to -80
  "Moderately restrictive" → -30 to -50
  "Modestly restrictive" → -10 to -25
  "Appropriate / near neutral" → 0 to +20
  "Not restrictive / need to hold" → +30 to +70

BALANCE_SCORE — Primary risk emphasis?
  Inflation dominates → +40 to +75
  More inflation than labor → +15 to +40
  Balanced → -10 to +15
  More labor/growth concern → -15 to -40
  Employment risk dominates → -40 to -75

DIRECTION_SCORE — Rate path signal?
  Explicit hold or hike preference → +40 to +75
  Patience, lean hold → +15 to +40
  Data dependent, balanced → -10 to +15
  Lean toward gradual cuts → -15 to -40
  Explicit cut preference → -40 to -75

COMPOSITE = round(0.30 × stance + 0.35 × balance + 0.35 × direction)

Extract 3-4 key signal phrases, label each hawk/dove/neutral.
One sentence rationale referencing the neutral rate framework.

Return ONLY valid JSON, no markdown:
{"stance":int,"balance":int,"direction":int,"composite":int,"reason":"string","keywords":[{"word":"string","type":"hawk|dove|neutral"}]}

SPEECH TEXT:
{text}`

// buildPrompt fills the scoring prompt placeholders. The member id is
// turned back into a display name ("mary daly" style ids are lowercase).
func buildPrompt(speaker, text string) string {
	return strings.NewReplacer(
		"{member_name}", memberName(speaker),
		"{text}", text,
	).Replace(scoringPrompt)
}

func memberName(speaker string) string {
	if speaker == "" {
		return "Unknown FOMC Official"
	}
	words := strings.Fields(strings.ReplaceAll(speaker, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
