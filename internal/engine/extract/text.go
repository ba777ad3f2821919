package extract

import (
	"regexp"
	"strings"

	"github.com/careguide-ai/server/internal/engine/model"
)

var (
	regionRe   = regexp.MustCompile(`\b\d{5}\b`)
	providerRe = regexp.MustCompile(`\bDr\.?\s+([A-Z][A-Za-z-]+)`)
	clinicRe   = regexp.MustCompile(`\b([A-Z][A-Za-z-]+(?:\s+[A-Z][A-Za-z-]+)?\s+Clinic)\b`)

	durationRe = regexp.MustCompile(`(?i)\b(?:for|past|last)\s+(?:about\s+|over\s+|around\s+)?((?:a|an|\d+|two|three|four|five|six|seven|eight|nine|ten|several|a couple of|a few)\s+(?:day|week|month|year)s?)`)
	bareSpanRe = regexp.MustCompile(`(?i)^(?:about\s+|over\s+|around\s+)?((?:a|an|\d+|two|three|four|five|six|seven|eight|nine|ten|several|a few)\s+(?:day|week|month|year)s?)\.?$`)
	sinceRe    = regexp.MustCompile(`(?i)\bsince\s+((?:early |mid |late )?[A-Za-z]+(?:\s+\d{4})?)`)

	denialCodeRe = regexp.MustCompile(`\b(?:CO|PR|OA)-?\d{1,3}\b`)
	policyRefRe  = regexp.MustCompile(`\b[A-Z]\d{5}\b`)
	ncdRefRe     = regexp.MustCompile(`\bNCD \d+(?:\.\d+)?\b`)
)

var appealKeywords = []string{"denied", "denial", "appeal", "rejected", "overturn"}

const guidanceMarker = "here is your coverage guidance"

type symptomPattern struct {
	keywords  []string
	canonical string
}

var symptomPatterns = []symptomPattern{
	{keywords: []string{"back pain", "back hurts", "back ache", "backache"}, canonical: "back pain"},
	{keywords: []string{"knee pain", "knee hurts", "my knee"}, canonical: "knee pain"},
	{keywords: []string{"shoulder pain", "shoulder hurts", "my shoulder"}, canonical: "shoulder pain"},
	{keywords: []string{"headache", "migraine", "head hurts"}, canonical: "headaches"},
	{keywords: []string{"numbness", "tingling", "radiating"}, canonical: "numbness or tingling"},
	{keywords: []string{"stomach", "abdominal", "heartburn", "reflux"}, canonical: "abdominal discomfort"},
	{keywords: []string{"chest pain", "palpitation"}, canonical: "chest pain"},
	{keywords: []string{"snoring", "apnea", "can't sleep", "cannot sleep", "insomnia"}, canonical: "sleep problems"},
	{keywords: []string{"anxiety", "panic"}, canonical: "anxiety"},
	{keywords: []string{"wheezing", "short of breath", "shortness of breath"}, canonical: "breathing difficulty"},
}

type treatmentPattern struct {
	keywords  []string
	canonical string
}

var treatmentPatterns = []treatmentPattern{
	{keywords: []string{"physical therapy", "physio"}, canonical: "physical therapy"},
	{keywords: []string{"chiropractor", "chiropractic"}, canonical: "chiropractic care"},
	{keywords: []string{"ibuprofen", "advil", "naproxen", "aleve"}, canonical: "NSAIDs"},
	{keywords: []string{"ice", "heat pad", "heating pad"}, canonical: "ice and heat"},
	{keywords: []string{"rest", "resting"}, canonical: "rest"},
	{keywords: []string{"injection", "steroid shot"}, canonical: "injections"},
	{keywords: []string{"massage"}, canonical: "massage"},
}

// Short confirmations and greetings that look like names but are not.
var nameStoplist = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true, "hi": true,
	"hello": true, "hey": true, "thanks": true, "thank": true, "sure": true,
	"maybe": true, "help": true,
}

// ApplyUserText folds facts out of a user message into the session. Appeal
// intent is recognized from user text only, so an assistant explaining the
// appeal process does not flip the conversation into the appeal flow.
func ApplyUserText(text string, state *model.SessionState) {
	lower := strings.ToLower(text)

	for _, p := range symptomPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				state.AddSymptoms(p.canonical)
				break
			}
		}
	}
	for _, p := range treatmentPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				state.AddPriorTreatments(p.canonical)
				break
			}
		}
	}

	if m := durationRe.FindStringSubmatch(text); m != nil {
		state.SetDuration(strings.ToLower(m[1]))
	} else if m := bareSpanRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		state.SetDuration(strings.ToLower(m[1]))
	} else if m := sinceRe.FindStringSubmatch(text); m != nil {
		state.SetDuration("since " + strings.TrimSpace(m[1]))
	}

	switch {
	case strings.Contains(lower, "severe"), strings.Contains(lower, "unbearable"), strings.Contains(lower, "worst"):
		state.SetSeverity("severe")
	case strings.Contains(lower, "moderate"):
		state.SetSeverity("moderate")
	case strings.Contains(lower, "mild"):
		state.SetSeverity("mild")
	}

	if m := regionRe.FindString(text); m != "" {
		state.SetRegion(m)
	}
	if m := providerRe.FindStringSubmatch(text); m != nil {
		state.SetProvider(model.ProviderRecord{Name: "Dr. " + m[1]})
	} else if m := clinicRe.FindStringSubmatch(text); m != nil {
		state.SetProvider(model.ProviderRecord{Name: m[1]})
	}

	for _, kw := range appealKeywords {
		if strings.Contains(lower, kw) {
			state.IsAppealFlow = true
			break
		}
	}
	if codes := denialCodeRe.FindAllString(text, -1); len(codes) > 0 {
		state.AddDenialCodes(codes...)
	}

	if state.PatientName == "" {
		if name, ok := looksLikeName(text); ok {
			state.SetPatientName(name)
		}
	}
}

// looksLikeName accepts a short message of capitalized alphabetic words,
// the shape of a bare "Jane Doe" reply to a name question.
func looksLikeName(text string) (string, bool) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "."))
	words := strings.Fields(trimmed)
	if len(words) == 0 || len(words) > 3 {
		return "", false
	}
	for _, w := range words {
		if nameStoplist[strings.ToLower(w)] {
			return "", false
		}
		if w[0] < 'A' || w[0] > 'Z' {
			return "", false
		}
		for _, r := range w {
			if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
				return "", false
			}
		}
	}
	return trimmed, true
}

// ApplyAssistantText folds facts out of the final assistant reply: coverage
// policy references it cited and the guidance-completion marker.
func ApplyAssistantText(text string, state *model.SessionState) {
	if refs := policyRefRe.FindAllString(text, -1); len(refs) > 0 {
		state.AddPolicyReferences(refs...)
	}
	if refs := ncdRefRe.FindAllString(text, -1); len(refs) > 0 {
		state.AddPolicyReferences(refs...)
	}
	if strings.Contains(strings.ToLower(text), guidanceMarker) {
		state.GuidanceGenerated = true
	}
}
