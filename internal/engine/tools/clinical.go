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

// DiagnosisSearchInput is the argument schema for search_diagnosis_codes.
type DiagnosisSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// DiagnosisSearchOutput lists matching diagnosis codes.
type DiagnosisSearchOutput struct {
	Codes []knowledge.DiagnosisCode `json:"codes"`
	Total int                       `json:"total"`
}

// ProcedureSearchInput is the argument schema for search_procedure_codes.
type ProcedureSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// ProcedureSearchOutput lists matching procedure codes.
type ProcedureSearchOutput struct {
	Codes []knowledge.ProcedureCode `json:"codes"`
	Total int                       `json:"total"`
}

// MedicationInput is the argument schema for classify_medication.
type MedicationInput struct {
	Name string `json:"name"`
}

// MedicationOutput is the classification of one medication.
type MedicationOutput struct {
	Medication knowledge.DrugClass `json:"medication"`
}

// SpecialtyInput is the argument schema for match_specialty.
type SpecialtyInput struct {
	Description string `json:"description"`
}

// SpecialtyOutput names the best-matching referral specialty.
type SpecialtyOutput struct {
	Specialty string `json:"specialty"`
}

func newDiagnosisSearchTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolSearchDiagnosisCodes,
		Desc: "Search the diagnosis code table by code fragment or by symptom/condition keywords. Returns matching codes with descriptions.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     "string",
				Desc:     "Code fragment or condition keywords, e.g. 'low back pain'",
				Required: true,
			},
			"max_results": {
				Type: "integer",
				Desc: "Maximum number of matches to return (default 10)",
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *DiagnosisSearchInput) (*DiagnosisSearchOutput, error) {
		if in.Query == "" {
			return nil, fmt.Errorf("query is required")
		}
		key := cache.Key(ToolSearchDiagnosisCodes, map[string]any{"query": in.Query, "max": in.MaxResults})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var codes []knowledge.DiagnosisCode
			err := deps.Governor.Execute(ctx, "codes", func(ctx context.Context) error {
				codes = knowledge.SearchDiagnosisCodes(in.Query, in.MaxResults)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return &DiagnosisSearchOutput{Codes: codes, Total: len(codes)}, nil
		})
		if err != nil {
			return nil, err
		}
		out := v.(*DiagnosisSearchOutput)
		if out.Total == 0 {
			return nil, fmt.Errorf("no diagnosis codes match %q", in.Query)
		}
		return out, nil
	})
}

func newProcedureSearchTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolSearchProcedureCodes,
		Desc: "Search the procedure code table by code fragment or procedure keywords. Returns matching codes with descriptions.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     "string",
				Desc:     "Code fragment or procedure keywords, e.g. 'MRI lumbar'",
				Required: true,
			},
			"max_results": {
				Type: "integer",
				Desc: "Maximum number of matches to return (default 10)",
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *ProcedureSearchInput) (*ProcedureSearchOutput, error) {
		if in.Query == "" {
			return nil, fmt.Errorf("query is required")
		}
		key := cache.Key(ToolSearchProcedureCodes, map[string]any{"query": in.Query, "max": in.MaxResults})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var codes []knowledge.ProcedureCode
			err := deps.Governor.Execute(ctx, "codes", func(ctx context.Context) error {
				codes = knowledge.SearchProcedureCodes(in.Query, in.MaxResults)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return &ProcedureSearchOutput{Codes: codes, Total: len(codes)}, nil
		})
		if err != nil {
			return nil, err
		}
		out := v.(*ProcedureSearchOutput)
		if out.Total == 0 {
			return nil, fmt.Errorf("no procedure codes match %q", in.Query)
		}
		return out, nil
	})
}

func newMedicationTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolClassifyMedication,
		Desc: "Classify a medication by name: drug class and whether it is available over the counter.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"name": {
				Type:     "string",
				Desc:     "Medication name, e.g. 'ibuprofen'",
				Required: true,
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *MedicationInput) (*MedicationOutput, error) {
		if in.Name == "" {
			return nil, fmt.Errorf("name is required")
		}
		key := cache.Key(ToolClassifyMedication, map[string]any{"name": in.Name})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var (
				drug  knowledge.DrugClass
				found bool
			)
			err := deps.Governor.Execute(ctx, "drugs", func(ctx context.Context) error {
				drug, found = knowledge.ClassifyMedication(in.Name)
				return nil
			})
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("unknown medication: %s", in.Name)
			}
			return &MedicationOutput{Medication: drug}, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(*MedicationOutput), nil
	})
}

func newSpecialtyTool(deps Deps) tool.InvokableTool {
	info := &schema.ToolInfo{
		Name: ToolMatchSpecialty,
		Desc: "Match a symptom description to the referral specialty that typically treats it.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"description": {
				Type:     "string",
				Desc:     "Free-text symptom description",
				Required: true,
			},
		}),
	}
	return utils.NewTool(info, func(ctx context.Context, in *SpecialtyInput) (*SpecialtyOutput, error) {
		if in.Description == "" {
			return nil, fmt.Errorf("description is required")
		}
		key := cache.Key(ToolMatchSpecialty, map[string]any{"description": in.Description})
		v, err := deps.Cache.GetOrSet(key, deps.CacheTTL, func() (any, error) {
			var (
				sp    knowledge.Specialty
				found bool
			)
			err := deps.Governor.Execute(ctx, "specialties", func(ctx context.Context) error {
				sp, found = knowledge.MatchSpecialty(in.Description)
				return nil
			})
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("no specialty matches the description")
			}
			return &SpecialtyOutput{Specialty: sp.Name}, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(*SpecialtyOutput), nil
	})
}
