package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsGrowWithoutDuplicates(t *testing.T) {
	s := NewSessionState()

	s.AddSymptoms("back pain", "back pain", "  ", "numbness")
	assert.Equal(t, []string{"back pain", "numbness"}, s.Symptoms)

	s.AddSymptoms("back pain")
	assert.Len(t, s.Symptoms, 2, "duplicates never append")

	s.AddDiagnosisCodes("M54.50")
	s.AddDiagnosisCodes("M54.50", "M54.16")
	assert.Equal(t, []string{"M54.50", "M54.16"}, s.DiagnosisCodes)
}

func TestScalarsKeepFirstValue(t *testing.T) {
	s := NewSessionState()

	s.SetDuration("8 weeks")
	s.SetDuration("2 days")
	assert.Equal(t, "8 weeks", s.Duration)

	s.SetProcedureID("72148")
	s.SetProcedureID("29881")
	assert.Equal(t, "72148", s.ProcedureID)

	s.SetAuthorizationRequired(true)
	s.SetAuthorizationRequired(false)
	require.NotNil(t, s.AuthorizationRequired)
	assert.True(t, *s.AuthorizationRequired)

	s.SetProvider(ProviderRecord{Name: "Dr. Smith"})
	s.SetProvider(ProviderRecord{Name: "Dr. Jones"})
	assert.Equal(t, "Dr. Smith", s.Provider.Name)
}

func TestSetProviderRejectsEmptyName(t *testing.T) {
	s := NewSessionState()
	s.SetProvider(ProviderRecord{Specialty: "orthopedics"})
	assert.Nil(t, s.Provider)
}

func TestResetDiscardsEverything(t *testing.T) {
	s := NewSessionState()
	s.AddSymptoms("back pain")
	s.SetDuration("8 weeks")
	s.IsAppealFlow = true
	s.RecordSearchAttempt("search_diagnosis_codes")

	s.Reset()

	assert.Empty(t, s.Symptoms)
	assert.Empty(t, s.Duration)
	assert.False(t, s.IsAppealFlow)
	assert.Empty(t, s.SearchAttempts)
}

func TestHasCoreIntake(t *testing.T) {
	s := NewSessionState()
	assert.False(t, s.HasCoreIntake())

	s.AddSymptoms("back pain")
	assert.False(t, s.HasCoreIntake())

	s.SetDuration("8 weeks")
	assert.True(t, s.HasCoreIntake())
}

func TestRecordSearchAttemptCounts(t *testing.T) {
	s := NewSessionState()

	assert.Equal(t, 1, s.RecordSearchAttempt("search_diagnosis_codes"))
	assert.Equal(t, 2, s.RecordSearchAttempt("search_diagnosis_codes"))
	assert.Equal(t, 1, s.RecordSearchAttempt("search_procedure_codes"))
}

func TestSummaryIsDeterministicAndOmitsEmptyFields(t *testing.T) {
	s := NewSessionState()
	assert.Empty(t, s.Summary(), "empty state renders nothing")

	s.AddSymptoms("back pain", "numbness")
	s.SetDuration("8 weeks")
	s.SetProcedureID("72148")

	first := s.Summary()
	second := s.Summary()
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Known session facts:")
	assert.Contains(t, first, "- Symptoms: back pain; numbness")
	assert.Contains(t, first, "- Duration: 8 weeks")
	assert.Contains(t, first, "- Planned procedure: 72148")
	assert.NotContains(t, first, "Denial")
}

func TestRedactedExposesNoPatientValues(t *testing.T) {
	s := NewSessionState()
	s.SetPatientName("Jane Doe")
	s.AddSymptoms("back pain")
	s.SetRegion("94110")

	r := s.Redacted()
	assert.Equal(t, true, r["has_name"])
	assert.Equal(t, true, r["has_region"])
	assert.Equal(t, 1, r["symptoms"])
	for _, v := range r {
		str, isString := v.(string)
		if isString {
			assert.NotContains(t, str, "Jane")
			assert.NotContains(t, str, "94110")
		}
	}
}
