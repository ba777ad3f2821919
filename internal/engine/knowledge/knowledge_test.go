package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDiagnosisCodesMatchesCodeAndDescription(t *testing.T) {
	byDesc := SearchDiagnosisCodes("back pain", 10)
	require.NotEmpty(t, byDesc)
	assert.Equal(t, "M54.50", byDesc[0].Code)

	byCode := SearchDiagnosisCodes("m54", 10)
	require.NotEmpty(t, byCode)
	for _, c := range byCode {
		assert.Contains(t, c.Code, "M54")
	}
}

func TestSearchRespectsMaxAndEmptyQuery(t *testing.T) {
	assert.Nil(t, SearchDiagnosisCodes("  ", 10))
	assert.Len(t, SearchDiagnosisCodes("pain", 2), 2)

	// Non-positive max falls back to the default cap.
	assert.NotEmpty(t, SearchProcedureCodes("mri", 0))
}

func TestSearchProcedureCodes(t *testing.T) {
	matches := SearchProcedureCodes("MRI lumbar", 10)
	require.NotEmpty(t, matches)
	assert.Equal(t, "72148", matches[0].Code)

	assert.Empty(t, SearchProcedureCodes("zzzzzz", 10))
}

func TestClassifyMedication(t *testing.T) {
	d, ok := ClassifyMedication("  Ibuprofen ")
	require.True(t, ok)
	assert.Equal(t, "NSAID", d.Class)
	assert.True(t, d.OTC)

	_, ok = ClassifyMedication("notadrug")
	assert.False(t, ok)
}

func TestMatchSpecialtyPicksBestKeywordCount(t *testing.T) {
	sp, ok := MatchSpecialty("migraine headaches with dizziness")
	require.True(t, ok)
	assert.Equal(t, "neurology", sp.Name)

	_, ok = MatchSpecialty("nothing recognizable here")
	assert.False(t, ok)
}

func TestPriorAuthRules(t *testing.T) {
	rule, ok := PriorAuthFor("72148")
	require.True(t, ok)
	assert.True(t, rule.Required)
	assert.NotEmpty(t, rule.Requirements)

	rule, ok = PriorAuthFor("97110")
	require.True(t, ok)
	assert.False(t, rule.Required)

	_, ok = PriorAuthFor("00000")
	assert.False(t, ok)
}

func TestPoliciesForProcedure(t *testing.T) {
	policies := PoliciesForProcedure("72148")
	require.NotEmpty(t, policies)
	assert.Equal(t, "L34221", policies[0].Reference)

	assert.Empty(t, PoliciesForProcedure("00000"))
}
