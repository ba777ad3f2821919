package prompt

import (
	"embed"
	"fmt"
	"strings"

	"github.com/careguide-ai/server/internal/engine/model"
)

//go:embed template/*.txt
var templateFS embed.FS

// FragmentID names one instruction fragment.
type FragmentID string

const (
	FragmentBase            FragmentID = "base"
	FragmentIntakeRestraint FragmentID = "intake_restraint"
	FragmentSymptomIntake   FragmentID = "symptom_intake"
	FragmentProcedure       FragmentID = "procedure_identification"
	FragmentProvider        FragmentID = "provider_lookup"
	FragmentCoverage        FragmentID = "coverage_lookup"
	FragmentGuidance        FragmentID = "guidance_generation"
	FragmentAppeal          FragmentID = "appeal_assistance"
	FragmentSuggestions     FragmentID = "suggestion_format"
)

func loadFragment(id FragmentID) string {
	b, err := templateFS.ReadFile(fmt.Sprintf("template/%s.txt", id))
	if err != nil {
		panic(fmt.Sprintf("missing prompt fragment %s: %v", id, err))
	}
	return strings.TrimSpace(string(b))
}

var fragments = map[FragmentID]string{
	FragmentBase:            loadFragment(FragmentBase),
	FragmentIntakeRestraint: loadFragment(FragmentIntakeRestraint),
	FragmentSymptomIntake:   loadFragment(FragmentSymptomIntake),
	FragmentProcedure:       loadFragment(FragmentProcedure),
	FragmentProvider:        loadFragment(FragmentProvider),
	FragmentCoverage:        loadFragment(FragmentCoverage),
	FragmentGuidance:        loadFragment(FragmentGuidance),
	FragmentAppeal:          loadFragment(FragmentAppeal),
	FragmentSuggestions:     loadFragment(FragmentSuggestions),
}

// planFragments selects fragments for the active triggers, in fixed
// priority order. Base comes first and the suggestion format last; the
// restraint fragment rides along until core intake is gathered, so topic
// fragments never license premature capability use on their own.
func planFragments(v TriggerVector) []FragmentID {
	plan := []FragmentID{FragmentBase}

	if v.NeedsClarification {
		plan = append(plan, FragmentIntakeRestraint)
	}
	if v.HasSymptoms {
		plan = append(plan, FragmentSymptomIntake)
	}
	if v.HasProcedure {
		plan = append(plan, FragmentProcedure)
	}
	if v.HasProvider {
		plan = append(plan, FragmentProvider)
	}
	if v.HasCoverageIntent {
		plan = append(plan, FragmentCoverage)
	}
	if v.HasProcedure && v.HasCoverageIntent && !v.HasGuidanceAlready {
		plan = append(plan, FragmentGuidance)
	}
	if v.IsAppealIntent {
		plan = append(plan, FragmentAppeal)
	}

	return append(plan, FragmentSuggestions)
}

// Compose renders the system instructions for a turn. The output is fully
// determined by the trigger vector and the session state.
func Compose(v TriggerVector, state *model.SessionState) string {
	var b strings.Builder
	for i, id := range planFragments(v) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fragments[id])
	}
	if summary := state.Summary(); summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	return b.String()
}
