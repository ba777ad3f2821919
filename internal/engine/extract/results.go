package extract

import (
	"encoding/json"

	"github.com/careguide-ai/server/internal/engine/model"
	"github.com/careguide-ai/server/internal/engine/tools"
	logx "github.com/careguide-ai/server/pkg/logger"
)

// FoldToolResult folds a successful capability result into the session.
// Failed results and results of unrecognized capabilities fold nothing;
// undecodable payloads are logged and skipped rather than failing the turn.
func FoldToolResult(name string, result model.ToolResult, state *model.SessionState) {
	if !result.Success {
		return
	}

	decode := func(v any) bool {
		if err := json.Unmarshal(result.Data, v); err != nil {
			logx.Warn().Str("capability", name).Err(err).Msg("Undecodable capability result; skipping fold")
			return false
		}
		return true
	}

	switch name {
	case tools.ToolSearchDiagnosisCodes:
		var out tools.DiagnosisSearchOutput
		if !decode(&out) {
			return
		}
		for _, c := range out.Codes {
			state.AddDiagnosisCodes(c.Code)
			if c.RedFlag {
				state.AddRedFlags(c.Description)
			}
		}

	case tools.ToolSearchProcedureCodes:
		var out tools.ProcedureSearchOutput
		if !decode(&out) {
			return
		}
		for _, c := range out.Codes {
			state.AddProcedureCodes(c.Code)
		}
		if len(out.Codes) > 0 {
			state.SetProcedureID(out.Codes[0].Code)
		}

	case tools.ToolClassifyMedication:
		var out tools.MedicationOutput
		if !decode(&out) {
			return
		}
		if out.Medication.Name != "" {
			state.AddPriorTreatments(out.Medication.Name)
		}

	case tools.ToolMatchSpecialty:
		var out tools.SpecialtyOutput
		if !decode(&out) {
			return
		}
		if state.Provider == nil {
			state.SetProvider(model.ProviderRecord{Name: out.Specialty + " specialist", Specialty: out.Specialty})
		} else if state.Provider.Specialty == "" {
			state.Provider.Specialty = out.Specialty
		}

	case tools.ToolCheckPriorAuth:
		var out tools.PriorAuthOutput
		if !decode(&out) {
			return
		}
		state.SetAuthorizationRequired(out.Required)
		state.AddRequirements(out.Requirements...)
		state.SetProcedureID(out.ProcedureCode)
		if !out.Required {
			// Nothing to document means nothing left to satisfy.
			state.MeetsRequirements = true
		}

	case tools.ToolLookupCoveragePolicy:
		var out tools.CoveragePolicyOutput
		if !decode(&out) {
			return
		}
		for _, p := range out.Policies {
			state.AddPolicyReferences(p.Reference)
		}
		if state.AuthorizationRequired != nil {
			// Both the authorization rule and the policy criteria have been
			// looked up; coverage verification is done.
			state.VerificationComplete = true
		}
	}
}
