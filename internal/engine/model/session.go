package model

import (
	"fmt"
	"strings"
)

// ProviderRecord identifies the treating provider once the conversation
// surfaces one, either from free text or from a specialty match.
type ProviderRecord struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

// SessionState is the accumulating fact record for one conversation.
//
// It is monotonic: list fields only grow (de-duplicated by exact value),
// scalar fields only move from empty to set, and derived flags are never
// cleared once true. The only way back is Reset, which replaces the whole
// record. Callers serialize turns per conversation; SessionState itself is
// not safe for concurrent mutation.
type SessionState struct {
	PatientName string `json:"patient_name,omitempty"`
	Region      string `json:"region,omitempty"`

	Symptoms         []string `json:"symptoms,omitempty"`
	PriorTreatments  []string `json:"prior_treatments,omitempty"`
	DiagnosisCodes   []string `json:"diagnosis_codes,omitempty"`
	ProcedureCodes   []string `json:"procedure_codes,omitempty"`
	PolicyReferences []string `json:"policy_references,omitempty"`
	DenialCodes      []string `json:"denial_codes,omitempty"`
	RedFlags         []string `json:"red_flags,omitempty"`
	Requirements     []string `json:"requirements,omitempty"`

	Duration              string          `json:"duration,omitempty"`
	Severity              string          `json:"severity,omitempty"`
	ProcedureID           string          `json:"procedure_id,omitempty"`
	DenialDate            string          `json:"denial_date,omitempty"`
	AuthorizationRequired *bool           `json:"authorization_required,omitempty"`
	Provider              *ProviderRecord `json:"provider,omitempty"`

	GuidanceGenerated    bool `json:"guidance_generated,omitempty"`
	VerificationComplete bool `json:"verification_complete,omitempty"`
	MeetsRequirements    bool `json:"meets_requirements,omitempty"`
	IsAppealFlow         bool `json:"is_appeal_flow,omitempty"`

	// SearchAttempts counts semantic lookup invocations per capability name.
	// This caps repeated searching by the model and is unrelated to the
	// transport-level retry counts in the resilience layer.
	SearchAttempts map[string]int `json:"search_attempts,omitempty"`
}

// NewSessionState returns the all-empty record used at conversation start.
func NewSessionState() *SessionState {
	return &SessionState{SearchAttempts: make(map[string]int)}
}

// Reset discards all accumulated facts.
func (s *SessionState) Reset() {
	*s = *NewSessionState()
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen := false
		for _, existing := range dst {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}

func (s *SessionState) AddSymptoms(v ...string) { s.Symptoms = appendUnique(s.Symptoms, v...) }

func (s *SessionState) AddPriorTreatments(v ...string) {
	s.PriorTreatments = appendUnique(s.PriorTreatments, v...)
}

func (s *SessionState) AddDiagnosisCodes(v ...string) {
	s.DiagnosisCodes = appendUnique(s.DiagnosisCodes, v...)
}

func (s *SessionState) AddProcedureCodes(v ...string) {
	s.ProcedureCodes = appendUnique(s.ProcedureCodes, v...)
}

func (s *SessionState) AddPolicyReferences(v ...string) {
	s.PolicyReferences = appendUnique(s.PolicyReferences, v...)
}

func (s *SessionState) AddDenialCodes(v ...string) { s.DenialCodes = appendUnique(s.DenialCodes, v...) }

func (s *SessionState) AddRedFlags(v ...string) { s.RedFlags = appendUnique(s.RedFlags, v...) }

func (s *SessionState) AddRequirements(v ...string) { s.Requirements = appendUnique(s.Requirements, v...) }

// Scalar setters keep the first value a conversation produced.

func (s *SessionState) SetPatientName(v string) {
	if s.PatientName == "" {
		s.PatientName = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetRegion(v string) {
	if s.Region == "" {
		s.Region = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetDuration(v string) {
	if s.Duration == "" {
		s.Duration = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetSeverity(v string) {
	if s.Severity == "" {
		s.Severity = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetProcedureID(v string) {
	if s.ProcedureID == "" {
		s.ProcedureID = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetDenialDate(v string) {
	if s.DenialDate == "" {
		s.DenialDate = strings.TrimSpace(v)
	}
}

func (s *SessionState) SetAuthorizationRequired(v bool) {
	if s.AuthorizationRequired == nil {
		s.AuthorizationRequired = &v
	}
}

func (s *SessionState) SetProvider(p ProviderRecord) {
	if s.Provider == nil && strings.TrimSpace(p.Name) != "" {
		s.Provider = &p
	}
}

// RecordSearchAttempt bumps the semantic-search counter for a capability
// and returns the new count.
func (s *SessionState) RecordSearchAttempt(capability string) int {
	if s.SearchAttempts == nil {
		s.SearchAttempts = make(map[string]int)
	}
	s.SearchAttempts[capability]++
	return s.SearchAttempts[capability]
}

// HasCoreIntake reports whether enough intake has been gathered for the
// model to start invoking lookup capabilities without being premature.
func (s *SessionState) HasCoreIntake() bool {
	return len(s.Symptoms) > 0 && s.Duration != ""
}

// Summary renders every populated field as working memory for the model.
// Field order is fixed so identical states render byte-identically.
func (s *SessionState) Summary() string {
	var b strings.Builder
	writeLine := func(label, value string) {
		if value != "" {
			b.WriteString("- " + label + ": " + value + "\n")
		}
	}
	writeLine("Patient", s.PatientName)
	writeLine("Region", s.Region)
	writeLine("Symptoms", strings.Join(s.Symptoms, "; "))
	writeLine("Duration", s.Duration)
	writeLine("Severity", s.Severity)
	writeLine("Prior treatments", strings.Join(s.PriorTreatments, "; "))
	writeLine("Diagnosis codes", strings.Join(s.DiagnosisCodes, ", "))
	writeLine("Procedure codes", strings.Join(s.ProcedureCodes, ", "))
	writeLine("Planned procedure", s.ProcedureID)
	if s.Provider != nil {
		p := s.Provider.Name
		if s.Provider.Specialty != "" {
			p += " (" + s.Provider.Specialty + ")"
		}
		writeLine("Provider", p)
	}
	if s.AuthorizationRequired != nil {
		writeLine("Prior authorization required", fmt.Sprintf("%t", *s.AuthorizationRequired))
	}
	writeLine("Coverage policies", strings.Join(s.PolicyReferences, ", "))
	writeLine("Requirements", strings.Join(s.Requirements, "; "))
	writeLine("Denial codes", strings.Join(s.DenialCodes, ", "))
	writeLine("Denial date", s.DenialDate)
	writeLine("Red flags", strings.Join(s.RedFlags, "; "))
	if s.IsAppealFlow {
		b.WriteString("- Appeal flow: yes\n")
	}
	if s.GuidanceGenerated {
		b.WriteString("- Guidance already generated: yes\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "Known session facts:\n" + b.String()
}

// Redacted returns a log-safe snapshot: presence and counts only, no
// patient-supplied values.
func (s *SessionState) Redacted() map[string]any {
	return map[string]any{
		"has_name":      s.PatientName != "",
		"has_region":    s.Region != "",
		"symptoms":      len(s.Symptoms),
		"treatments":    len(s.PriorTreatments),
		"dx_codes":      len(s.DiagnosisCodes),
		"px_codes":      len(s.ProcedureCodes),
		"has_duration":  s.Duration != "",
		"has_procedure": s.ProcedureID != "",
		"has_provider":  s.Provider != nil,
		"appeal_flow":   s.IsAppealFlow,
	}
}
