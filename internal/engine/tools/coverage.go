package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/careguide-ai/server/internal/engine/cache"
	"github.com/careguide-ai/server/internal/engine/knowledge"
)

// PriorAuthInput is the argument schema for check_prior_authorization.
type PriorAuthInput struct {
	ProcedureCode string `json:"procedure_code"`
}

// PriorAuthOutput reports the prior-authorization rule for one procedure.
type PriorAuthOutput struct {
	ProcedureCode string   `json:"procedure_code"`
	Required      bool     `json:"required"`
	Requirements  []string `json:"requirements,omitempty"`
}

// CoveragePolicyInput is the argument schema for lookup_coverage_policy.
type CoveragePolicyInput struct {
	ProcedureCode string `json:"procedure_code"`
}

// CoveragePolicyOutput lists the coverage policies applying to a procedure.
type CoveragePolicyOutput struct {
	Policies []knowledge.CoveragePolicy `json:"policies"`
	Total    int                        `json:"total"`
}

func newPriorAuthTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolCheckPriorAuth,
		Desc: "Check whether a procedure code requires prior authorization and what documentation the payer expects.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"procedure_code": {
				Type:     "string",
				Desc:     "Procedure code, e.g. '72148'",
				Required: true,
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *PriorAuthInput) (*PriorAuthOutput, error) {
		if in.ProcedureCode == "" {
			return nil, fmt.Errorf("procedure_code is required")
		}
		key := cache.Key(ToolCheckPriorAuth, map[string]any{"procedure_code": in.ProcedureCode})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var (
				rule  knowledge.PriorAuthRule
				found bool
			)
			err := deps.Governor.Execute(ctx, "policies", func(ctx context.Context) error {
				rule, found = knowledge.PriorAuthFor(in.ProcedureCode)
				return nil
			})
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("no prior-authorization rule on file for %s", in.ProcedureCode)
			}
			return &PriorAuthOutput{
				ProcedureCode: rule.ProcedureCode,
				Required:      rule.Required,
				Requirements:  rule.Requirements,
			}, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(*PriorAuthOutput), nil
	})
}

func newCoveragePolicyTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolLookupCoveragePolicy,
		Desc: "Look up the payer coverage policies that apply to a procedure code, including coverage criteria.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"procedure_code": {
				Type:     "string",
				Desc:     "Procedure code, e.g. '72148'",
				Required: true,
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *CoveragePolicyInput) (*CoveragePolicyOutput, error) {
		if in.ProcedureCode == "" {
			return nil, fmt.Errorf("procedure_code is required")
		}
		key := cache.Key(ToolLookupCoveragePolicy, map[string]any{"procedure_code": in.ProcedureCode})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var policies []knowledge.CoveragePolicy
			err := deps.Governor.Execute(ctx, "policies", func(ctx context.Context) error {
				policies = knowledge.PoliciesForProcedure(in.ProcedureCode)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return &CoveragePolicyOutput{Policies: policies, Total: len(policies)}, nil
		})
		if err != nil {
			return nil, err
		}
		out := v.(*CoveragePolicyOutput)
		if out.Total == 0 {
			return nil, fmt.Errorf("no coverage policy on file for %s", in.ProcedureCode)
		}
		return out, nil
	})
}
