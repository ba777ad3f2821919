// Package tools maps capability names to executors and to the schemas
// advertised to the model. Executor faults and unknown capability names are
// contained here: they become failed ToolResults, never panics that could
// abort the orchestration loop.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/careguide-ai/server/internal/engine/cache"
	"github.com/careguide-ai/server/internal/engine/model"
	"github.com/careguide-ai/server/internal/engine/resilience"
	logx "github.com/careguide-ai/server/pkg/logger"
)

// Capability names. These are the stable identifiers advertised to the
// model and used for result folding.
const (
	ToolSearchDiagnosisCodes = "search_diagnosis_codes"
	ToolSearchProcedureCodes = "search_procedure_codes"
	ToolClassifyMedication   = "classify_medication"
	ToolMatchSpecialty       = "match_specialty"
	ToolCheckPriorAuth       = "check_prior_authorization"
	ToolLookupCoveragePolicy = "lookup_coverage_policy"
)

// Deps carries what executors need to reach the knowledge services: every
// lookup goes through the governor under its dependency name and through
// the TTL cache.
type Deps struct {
	Governor *resilience.Governor
	Cache    *cache.Cache
	CacheTTL time.Duration
}

// Registry is the lookup from capability name to executor and schema.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]tool.InvokableTool
	infos []*schema.ToolInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]tool.InvokableTool)}
}

// NewDefaultRegistry registers every built-in capability executor.
func NewDefaultRegistry(ctx context.Context, deps Deps) (*Registry, error) {
	r := NewRegistry()
	for _, t := range []tool.InvokableTool{
		newDiagnosisSearchTool(deps),
		newProcedureSearchTool(deps),
		newMedicationTool(deps),
		newSpecialtyTool(deps),
		newPriorAuthTool(deps),
		newCoveragePolicyTool(deps),
	} {
		if err := r.Register(ctx, t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an executor under the name its ToolInfo declares.
func (r *Registry) Register(ctx context.Context, t tool.InvokableTool) error {
	info, err := t.Info(ctx)
	if err != nil {
		return fmt.Errorf("get tool info: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[info.Name]; exists {
		return fmt.Errorf("capability already registered: %s", info.Name)
	}
	r.tools[info.Name] = t
	r.infos = append(r.infos, info)
	return nil
}

// Has reports whether a capability name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Infos returns the schemas advertised to the model, in registration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.ToolInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

// Execute runs the named capability with JSON-encoded arguments. It never
// returns an error: unknown names, executor errors, and executor panics all
// come back as ToolResult{Success: false}.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (result model.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Str("capability", name).Msgf("capability executor panic recovered: %v", rec)
			result = model.FailResult(fmt.Sprintf("capability %s failed", name))
		}
	}()

	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		logx.Warn().Str("capability", name).Msg("Unknown capability requested; returning failed result")
		return model.FailResult(fmt.Sprintf("unknown capability: %s", name))
	}

	out, err := t.InvokableRun(ctx, arguments)
	if err != nil {
		return model.FailResult(err.Error())
	}
	if !json.Valid([]byte(out)) {
		return model.FailResult(fmt.Sprintf("capability %s returned malformed output", name))
	}
	return model.ToolResult{Success: true, Data: json.RawMessage(out)}
}
