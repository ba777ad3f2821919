package knowledge

import "strings"

// PriorAuthRule states whether a procedure needs prior authorization and
// what documentation the payer expects.
type PriorAuthRule struct {
	ProcedureCode string   `json:"procedure_code"`
	Required      bool     `json:"required"`
	Requirements  []string `json:"requirements,omitempty"`
}

// CoveragePolicy references a payer coverage determination.
type CoveragePolicy struct {
	Reference      string   `json:"reference"`
	Title          string   `json:"title"`
	ProcedureCodes []string `json:"procedure_codes"`
	Criteria       []string `json:"criteria,omitempty"`
}

var priorAuthRules = map[string]PriorAuthRule{
	"72148": {ProcedureCode: "72148", Required: true, Requirements: []string{
		"6 weeks of documented conservative therapy",
		"neurological exam findings on file",
		"symptom duration documented in the record",
	}},
	"72141": {ProcedureCode: "72141", Required: true, Requirements: []string{
		"6 weeks of documented conservative therapy",
		"neurological exam findings on file",
	}},
	"73721": {ProcedureCode: "73721", Required: true, Requirements: []string{
		"plain films completed within 60 days",
		"documented failure of conservative treatment",
	}},
	"70551": {ProcedureCode: "70551", Required: true, Requirements: []string{
		"neurological exam findings on file",
		"documented red-flag symptoms or treatment-refractory headache",
	}},
	"29881": {ProcedureCode: "29881", Required: true, Requirements: []string{
		"MRI confirming meniscal pathology",
		"3 months of documented conservative therapy",
	}},
	"29827": {ProcedureCode: "29827", Required: true, Requirements: []string{
		"imaging confirming rotator cuff tear",
		"documented physical therapy trial",
	}},
	"62323": {ProcedureCode: "62323", Required: true, Requirements: []string{
		"imaging correlating with radicular symptoms",
		"4 weeks of documented conservative therapy",
	}},
	"63030": {ProcedureCode: "63030", Required: true, Requirements: []string{
		"MRI confirming disc herniation at the operative level",
		"6 weeks of documented conservative therapy",
		"correlating radicular findings on exam",
	}},
	"95810": {ProcedureCode: "95810", Required: true, Requirements: []string{
		"validated sleep questionnaire score on file",
	}},
	"97110": {ProcedureCode: "97110", Required: false},
	"98940": {ProcedureCode: "98940", Required: false},
	"72110": {ProcedureCode: "72110", Required: false},
	"73560": {ProcedureCode: "73560", Required: false},
	"45378": {ProcedureCode: "45378", Required: false},
}

var coveragePolicies = []CoveragePolicy{
	{
		Reference:      "L34221",
		Title:          "MRI of the Spine",
		ProcedureCodes: []string{"72148", "72141"},
		Criteria: []string{
			"persistent symptoms for at least 6 weeks despite conservative therapy",
			"objective neurological deficit, or red-flag presentation",
		},
	},
	{
		Reference:      "L36861",
		Title:          "MRI of Extremity Joints",
		ProcedureCodes: []string{"73721"},
		Criteria: []string{
			"recent plain films",
			"clinical findings suggesting internal derangement",
		},
	},
	{
		Reference:      "L33577",
		Title:          "Epidural Steroid Injections for Pain Management",
		ProcedureCodes: []string{"62323", "64483"},
		Criteria: []string{
			"radicular pain corroborated by imaging",
			"failure of at least 4 weeks of conservative management",
		},
	},
	{
		Reference:      "L38427",
		Title:          "Arthroscopic Knee Surgery",
		ProcedureCodes: []string{"29881"},
		Criteria: []string{
			"MRI evidence of meniscal tear",
			"mechanical symptoms or failed conservative therapy",
		},
	},
	{
		Reference:      "NCD 240.4",
		Title:          "Sleep Testing for Obstructive Sleep Apnea",
		ProcedureCodes: []string{"95810"},
		Criteria: []string{
			"clinical evaluation documenting signs and symptoms of sleep apnea",
		},
	},
	{
		Reference:      "NCD 220.1",
		Title:          "Computed Tomography and Magnetic Resonance Imaging",
		ProcedureCodes: []string{"70551"},
	},
}

// PriorAuthFor returns the prior-authorization rule for a procedure code.
func PriorAuthFor(code string) (PriorAuthRule, bool) {
	r, ok := priorAuthRules[strings.TrimSpace(code)]
	return r, ok
}

// PoliciesForProcedure returns every coverage policy listing the code.
func PoliciesForProcedure(code string) []CoveragePolicy {
	code = strings.TrimSpace(code)
	var out []CoveragePolicy
	for _, p := range coveragePolicies {
		for _, pc := range p.ProcedureCodes {
			if pc == code {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
