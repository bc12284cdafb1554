package generator

import (
	"fmt"
	"strings"
)

// Prompt is the set of messages sent to the model.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message is a prior turn placed between the system persona and the user text.
type Message struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const disclaimerLine = "*Past performance is not a reliable indicator of future results.*"

const personaTemplate = `You are The Motley Fool’s senior direct‑response copy chief.

• Voice: plain English, optimistic, inclusive, lightly playful but always expert.
• Draw from Ogilvy clarity, Sugarman narrative, Halbert urgency, Cialdini persuasion.
• Use **Markdown headings** (##, ###) and standard ` + "`-`" + ` bullets for lists.
• Never promise guaranteed returns; keep compliance in mind.
• Return ONLY the requested copy – no meta commentary, no code fences.

%s

At the very end of the piece, append this italic line (no quotes):
` + disclaimerLine

const generateTask = `### TASK
1. Create a concise INTERNAL bullet plan covering:
   • Hook & opening flow
   • Placement of proof, urgency, CTA
   • Any standout stats, metaphors, social proof you intend to use
2. Then write the final copy.

Respond ONLY as valid JSON with exactly two keys:
{
  "plan": "<the bullet outline>",
  "copy": "<the finished marketing copy>"
}`

// Persona is the system message for a market.
func Persona(c Country) string {
	rules, _ := c.Rules()
	return fmt.Sprintf(personaTemplate, rules.Sentence())
}

// HardRequirements lists the clauses triggered by trait thresholds.
func HardRequirements(scores TraitScores) []string {
	var hard []string
	if scores[Urgency] >= 8 {
		hard = append(hard, "- Include a deadline phrase in headline/subject **and** CTA.")
	}
	if scores[SocialProof] >= 6 {
		hard = append(hard, "- Provide ≥3 credibility builders (testimonial, member count, expert quote).")
	}
	if scores[DataRichness] >= 7 {
		hard = append(hard, "- Cite ≥1 numeric performance figure (% return, CAGR, dollar value).")
	}
	return hard
}

// BriefLines renders the non-blank brief fields as "- Label: value" lines.
func BriefLines(b Brief) []string {
	fields := []struct{ label, value string }{
		{"Hook", b.Hook},
		{"Details", b.Details},
		{"Offer Price", b.OfferPrice},
		{"Retail Price", b.RetailPrice},
		{"Offer Term", b.OfferTerm},
		{"Reports", b.Reports},
		{"Stocks to Tease", b.StocksToTease},
		{"Quotes/News", b.QuotesNews},
	}
	var lines []string
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", f.label, v))
	}
	return lines
}

// BuildInstructions assembles the instruction payload. A non-empty prior is embedded as the
// copy to revise.
func BuildInstructions(spec Spec, prior string) string {
	var sb strings.Builder
	sb.WriteString(TraitGuide(spec.Traits))
	sb.WriteString("\n\n")
	sb.WriteString(spec.CopyType.Example())
	sb.WriteString("\n\n#### Structure to Follow\n")
	sb.WriteString(spec.CopyType.Skeleton())
	sb.WriteString("\n\n")

	if hard := HardRequirements(spec.Traits); len(hard) > 0 {
		sb.WriteString("#### Hard Requirements\n")
		sb.WriteString(strings.Join(hard, "\n"))
		sb.WriteString("\n\n")
	}

	sb.WriteString("#### Campaign Brief\n")
	for _, l := range BriefLines(spec.Brief) {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n#### Length Requirement\n")
	sb.WriteString(spec.Length.Requirement())
	sb.WriteString("\n\nPlease limit bullet lists to three or fewer and favour full‑sentence paragraphs elsewhere.")

	if prior = strings.TrimSpace(prior); prior != "" {
		sb.WriteString("\n\n### ORIGINAL COPY\n")
		sb.WriteString(prior)
		sb.WriteString("\n### END ORIGINAL")
	}
	sb.WriteString("\n\n### END INSTRUCTIONS")
	return sb.String()
}

// BuildGeneratePrompt produces the first-draft or edit prompt.
func BuildGeneratePrompt(spec Spec, prior string) Prompt {
	return Prompt{
		System: Persona(spec.Country),
		User:   generateTask + "\n\n" + BuildInstructions(spec, prior),
	}
}

const qaPersona = "You are an obsessive editorial QA bot."

// BuildQAPrompt asks for "PASS" or a bullet list of fixes.
func BuildQAPrompt(draft string, ct CopyType) Prompt {
	user := fmt.Sprintf(`Check copy for:
• Hard requirements
• Structure matches %s
• Disclaimer present
Return ONLY “PASS” or bullet fixes.
--- COPY ---
%s
--- END ---`, ct, draft)
	return Prompt{System: qaPersona, User: user}
}

// BuildFixPrompt asks for the full revised copy as plain text.
func BuildFixPrompt(draft, critique string) Prompt {
	user := fmt.Sprintf(`Apply fixes, output full revised copy ONLY.
### FIXES
%s
### ORIGINAL
%s`, critique, draft)
	return Prompt{System: "Revise copy to address feedback.", User: user}
}

// BuildVariantsPrompt asks for n headline and n CTA alternatives as JSON.
func BuildVariantsPrompt(copyText string, n int) Prompt {
	user := fmt.Sprintf(`Write %d alternative subject‑line/headline ideas AND %d alternative CTA button labels
for the copy below, preserving tone and urgency.
Return JSON: { "headlines": [...], "ctas": [...] }

--- COPY ---
%s
--- END COPY ---`, n, n, copyText)
	return Prompt{System: "You are a world‑class copywriter.", User: user}
}

// BuildAdaptPrompt rewrites copy for the target market using its persona.
func BuildAdaptPrompt(copyText string, target Country) Prompt {
	user := fmt.Sprintf(`Adapt the following marketing copy for a %s audience.
Update spelling, currency, market references; preserve tone & structure.

--- ORIGINAL COPY START ---
%s
--- ORIGINAL COPY END ---
### END INSTRUCTIONS`, target, copyText)
	return Prompt{System: Persona(target), User: user}
}

// BuildCritiquePrompt asks for three bullets of editorial feedback.
func BuildCritiquePrompt(copyText string) Prompt {
	user := fmt.Sprintf(`In 3 bullets – one strength, one weakness, one improvement.
--- COPY ---
%s
--- END ---`, copyText)
	return Prompt{System: "Give concise, constructive feedback.", User: user}
}
