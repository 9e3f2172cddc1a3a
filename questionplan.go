package quizforge

import "fmt"

// BuildPlan turns the caller's per-type settings into an ordered generation
// plan. Entries follow type registration order.
//
// With zero enabled types the plan falls back to a single multiple choice
// entry carrying the full requested count. With exactly one enabled type that
// type gets the full count and its configured quantity is ignored. With
// several enabled types each configured quantity is clamped to [0, total] and
// zero-quantity entries are dropped; the quantities are deliberately NOT
// reconciled against the requested total, so the plan sum may differ from it.
func BuildPlan(types map[QuestionType]QuestionTypeSetting, total int) ([]PlanEntry, error) {
	if total <= 0 {
		return nil, &PipelineError{
			Kind:    ErrPlanEmpty,
			Message: fmt.Sprintf("cannot plan %d questions", total),
		}
	}

	var enabled []QuestionType
	for _, qt := range questionTypeOrder {
		if types[qt].Enabled {
			enabled = append(enabled, qt)
		}
	}

	switch len(enabled) {
	case 0:
		return []PlanEntry{{Type: TypeMultipleChoice, Quantity: total}}, nil
	case 1:
		return []PlanEntry{{Type: enabled[0], Quantity: total}}, nil
	}

	var plan []PlanEntry
	for _, qt := range enabled {
		quantity := types[qt].Quantity
		if quantity < 0 {
			quantity = 0
		}
		if quantity > total {
			quantity = total
		}
		if quantity == 0 {
			continue
		}
		plan = append(plan, PlanEntry{Type: qt, Quantity: quantity})
	}

	// All configured quantities were zero: fall back to the first enabled type.
	if len(plan) == 0 {
		plan = []PlanEntry{{Type: enabled[0], Quantity: total}}
	}
	return plan, nil
}

// PlanTotal sums the quantities of a plan.
func PlanTotal(plan []PlanEntry) int {
	total := 0
	for _, entry := range plan {
		total += entry.Quantity
	}
	return total
}
