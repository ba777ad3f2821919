// Package knowledge holds the local lookup tables behind the capability
// executors: code search, drug classification, specialty matching,
// prior-authorization rules, and coverage policies. Lookups are synchronous
// and deterministic; the only failure mode is "not found".
package knowledge

import "strings"

// DiagnosisCode is one entry of the diagnosis code table.
type DiagnosisCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	RedFlag     bool   `json:"red_flag,omitempty"`
}

// ProcedureCode is one entry of the procedure code table.
type ProcedureCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

var diagnosisCodes = []DiagnosisCode{
	{Code: "M54.50", Description: "Low back pain, unspecified"},
	{Code: "M54.16", Description: "Radiculopathy, lumbar region"},
	{Code: "M51.26", Description: "Other intervertebral disc displacement, lumbar region"},
	{Code: "M25.561", Description: "Pain in right knee"},
	{Code: "M25.562", Description: "Pain in left knee"},
	{Code: "M17.11", Description: "Unilateral primary osteoarthritis, right knee"},
	{Code: "M75.101", Description: "Rotator cuff tear, right shoulder, unspecified"},
	{Code: "G89.29", Description: "Other chronic pain"},
	{Code: "G43.909", Description: "Migraine, unspecified, not intractable"},
	{Code: "R51.9", Description: "Headache, unspecified"},
	{Code: "R10.9", Description: "Unspecified abdominal pain"},
	{Code: "K21.9", Description: "Gastro-esophageal reflux disease without esophagitis"},
	{Code: "J45.909", Description: "Unspecified asthma, uncomplicated"},
	{Code: "I10", Description: "Essential (primary) hypertension"},
	{Code: "E11.9", Description: "Type 2 diabetes mellitus without complications"},
	{Code: "F41.1", Description: "Generalized anxiety disorder"},
	{Code: "F32.9", Description: "Major depressive disorder, single episode, unspecified"},
	{Code: "R55", Description: "Syncope and collapse", RedFlag: true},
	{Code: "R07.9", Description: "Chest pain, unspecified", RedFlag: true},
	{Code: "G54.2", Description: "Cervical root disorders, not elsewhere classified"},
	{Code: "M79.2", Description: "Neuralgia and neuritis, unspecified"},
	{Code: "S83.511", Description: "Sprain of anterior cruciate ligament of right knee"},
}

var procedureCodes = []ProcedureCode{
	{Code: "72148", Description: "MRI lumbar spine without contrast"},
	{Code: "72141", Description: "MRI cervical spine without contrast"},
	{Code: "73721", Description: "MRI lower extremity joint without contrast"},
	{Code: "70551", Description: "MRI brain without contrast"},
	{Code: "72110", Description: "X-ray lumbosacral spine, minimum of four views"},
	{Code: "73560", Description: "X-ray knee, one or two views"},
	{Code: "29881", Description: "Knee arthroscopy with meniscectomy"},
	{Code: "29827", Description: "Shoulder arthroscopy with rotator cuff repair"},
	{Code: "62323", Description: "Epidural steroid injection, lumbar, with imaging guidance"},
	{Code: "64483", Description: "Transforaminal epidural injection, lumbar, single level"},
	{Code: "97110", Description: "Therapeutic exercises, each 15 minutes"},
	{Code: "98940", Description: "Chiropractic manipulative treatment, spinal, 1-2 regions"},
	{Code: "45378", Description: "Colonoscopy, diagnostic"},
	{Code: "43239", Description: "Upper GI endoscopy with biopsy"},
	{Code: "95810", Description: "Polysomnography, attended sleep study"},
	{Code: "63030", Description: "Lumbar laminotomy with disc excision, single level"},
}

// SearchDiagnosisCodes returns table entries whose code or description
// matches the query, case-insensitive, capped at max.
func SearchDiagnosisCodes(query string, max int) []DiagnosisCode {
	if max <= 0 {
		max = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []DiagnosisCode
	for _, c := range diagnosisCodes {
		if strings.Contains(strings.ToLower(c.Code), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
			if len(out) >= max {
				break
			}
		}
	}
	return out
}

// SearchProcedureCodes returns procedure table entries matching the query.
func SearchProcedureCodes(query string, max int) []ProcedureCode {
	if max <= 0 {
		max = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []ProcedureCode
	for _, c := range procedureCodes {
		if strings.Contains(strings.ToLower(c.Code), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
			if len(out) >= max {
				break
			}
		}
	}
	return out
}
