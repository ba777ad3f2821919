package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careguide-ai/server/internal/engine/cache"
	"github.com/careguide-ai/server/internal/engine/model"
	"github.com/careguide-ai/server/internal/engine/resilience"
)

func newTestDeps() Deps {
	return Deps{
		Governor: resilience.NewGovernor(
			model.RateLimitConfig{PerMinute: 6000, Burst: 100},
			model.BreakerConfig{FailureThreshold: 5, ResetTimeout: time.Minute, HalfOpenProbes: 2},
			model.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2, Jitter: 0},
		),
		Cache:    cache.New(64),
		CacheTTL: time.Minute,
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewDefaultRegistry(context.Background(), newTestDeps())
	require.NoError(t, err)
	return r
}

func TestDefaultRegistryAdvertisesAllCapabilities(t *testing.T) {
	r := newTestRegistry(t)

	names := make([]string, 0)
	for _, info := range r.Infos() {
		names = append(names, info.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolSearchDiagnosisCodes,
		ToolSearchProcedureCodes,
		ToolClassifyMedication,
		ToolMatchSpecialty,
		ToolCheckPriorAuth,
		ToolLookupCoveragePolicy,
	}, names)
	for _, name := range names {
		assert.True(t, r.Has(name))
	}
}

func TestUnknownCapabilityReturnsFailedResult(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), "does_not_exist", `{}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown capability")
}

func TestDiagnosisSearchSuccess(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolSearchDiagnosisCodes, `{"query":"back pain"}`)
	require.True(t, res.Success, "error: %s", res.Error)

	var out DiagnosisSearchOutput
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.NotEmpty(t, out.Codes)
	assert.Equal(t, len(out.Codes), out.Total)
}

func TestDiagnosisSearchNoMatchIsFailedResult(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolSearchDiagnosisCodes, `{"query":"zzzzzz"}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no diagnosis codes match")
}

func TestMissingRequiredArgumentIsFailedResult(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolSearchDiagnosisCodes, `{}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "query is required")
}

func TestPriorAuthLookup(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolCheckPriorAuth, `{"procedure_code":"72148"}`)
	require.True(t, res.Success, "error: %s", res.Error)

	var out PriorAuthOutput
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.True(t, out.Required)
	assert.NotEmpty(t, out.Requirements)

	res = r.Execute(context.Background(), ToolCheckPriorAuth, `{"procedure_code":"97110"}`)
	require.True(t, res.Success)
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.False(t, out.Required)
}

func TestCoveragePolicyLookup(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolLookupCoveragePolicy, `{"procedure_code":"72148"}`)
	require.True(t, res.Success, "error: %s", res.Error)

	var out CoveragePolicyOutput
	require.NoError(t, json.Unmarshal(res.Data, &out))
	require.NotEmpty(t, out.Policies)
	assert.Equal(t, "L34221", out.Policies[0].Reference)
}

func TestSpecialtyMatch(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolMatchSpecialty, `{"description":"lower back pain radiating down my leg"}`)
	require.True(t, res.Success, "error: %s", res.Error)

	var out SpecialtyOutput
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.Equal(t, "orthopedics", out.Specialty)
}

func TestMedicationClassification(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Execute(context.Background(), ToolClassifyMedication, `{"name":"Ibuprofen"}`)
	require.True(t, res.Success, "error: %s", res.Error)

	var out MedicationOutput
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.Equal(t, "NSAID", out.Medication.Class)
	assert.True(t, out.Medication.OTC)

	res = r.Execute(context.Background(), ToolClassifyMedication, `{"name":"notadrug"}`)
	assert.False(t, res.Success)
}

func TestRepeatedLookupServedFromCache(t *testing.T) {
	deps := newTestDeps()
	r, err := NewDefaultRegistry(context.Background(), deps)
	require.NoError(t, err)

	args := `{"query":"back pain"}`
	first := r.Execute(context.Background(), ToolSearchDiagnosisCodes, args)
	require.True(t, first.Success)

	key := cache.Key(ToolSearchDiagnosisCodes, map[string]any{"query": "back pain", "max": 0})
	require.Equal(t, 0, deps.Cache.Hits(key))

	second := r.Execute(context.Background(), ToolSearchDiagnosisCodes, args)
	require.True(t, second.Success)
	assert.Equal(t, 1, deps.Cache.Hits(key), "second lookup reads the cached entry")
	assert.JSONEq(t, string(first.Data), string(second.Data))
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(context.Background(), panicTool{name: ToolSearchDiagnosisCodes})
	assert.ErrorContains(t, err, "already registered")
}

type panicTool struct {
	name string
}

func (p panicTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        p.name,
		Desc:        "always panics",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
	}, nil
}

func (p panicTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	panic("executor exploded")
}

func TestExecutorPanicIsContained(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(context.Background(), panicTool{name: "explosive"}))

	res := r.Execute(context.Background(), "explosive", `{}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "explosive")
}
