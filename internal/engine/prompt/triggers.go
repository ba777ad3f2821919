// Package prompt derives trigger signals from conversation state and
// composes the system instructions for a turn from embedded fragments.
// Composition is pure: the same triggers and state always produce the same
// instructions, byte for byte.
package prompt

import (
	"strings"

	"github.com/careguide-ai/server/internal/engine/model"
)

// TriggerVector captures which conversation signals are active this turn.
// Triggers derive from accumulated session facts and from the latest
// conversation text; they never flip a previously set session fact off.
type TriggerVector struct {
	HasSymptoms        bool
	HasProcedure       bool
	HasProvider        bool
	HasDiagnosis       bool
	HasCoverageIntent  bool
	HasGuidanceAlready bool
	IsAppealIntent     bool
	NeedsClarification bool
}

var coverageKeywords = []string{
	"covered", "coverage", "insurance", "prior auth", "authorization",
	"pre-auth", "preauth", "approve", "out of pocket", "copay", "deductible",
}

var procedureKeywords = []string{
	"mri", "x-ray", "xray", "surgery", "arthroscopy", "injection",
	"colonoscopy", "endoscopy", "sleep study", "imaging", "scan", "procedure",
}

var providerKeywords = []string{
	"doctor", "specialist", "provider", "who should i see", "referral", "dr.",
}

var appealKeywords = []string{
	"denied", "denial", "appeal", "overturn",
	"rejected my claim", "claim was rejected",
}

// DetectTriggers derives the trigger vector for a turn from the session
// state and the conversation text of the current turn.
func DetectTriggers(conversation string, state *model.SessionState) TriggerVector {
	text := strings.ToLower(conversation)
	contains := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}

	v := TriggerVector{
		HasSymptoms:        len(state.Symptoms) > 0,
		HasProcedure:       state.ProcedureID != "" || contains(procedureKeywords),
		HasProvider:        state.Provider != nil || contains(providerKeywords),
		HasDiagnosis:       len(state.DiagnosisCodes) > 0,
		HasCoverageIntent:  contains(coverageKeywords),
		HasGuidanceAlready: state.GuidanceGenerated,
		IsAppealIntent:     state.IsAppealFlow || contains(appealKeywords),
	}
	v.NeedsClarification = !state.HasCoreIntake() && !v.IsAppealIntent
	return v
}
