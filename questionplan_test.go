package quizforge

import "testing"

func TestBuildPlan_NoEnabledTypesFallsBackToMultipleChoice(t *testing.T) {
	plan, err := BuildPlan(map[QuestionType]QuestionTypeSetting{}, 10)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(plan))
	}
	if plan[0].Type != TypeMultipleChoice || plan[0].Quantity != 10 {
		t.Errorf("expected multiple_choice x10, got %s x%d", plan[0].Type, plan[0].Quantity)
	}
}

func TestBuildPlan_SingleEnabledTypeIgnoresConfiguredQuantity(t *testing.T) {
	types := map[QuestionType]QuestionTypeSetting{
		TypeTrueFalse: {Enabled: true, Quantity: 3},
	}
	plan, err := BuildPlan(types, 8)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan) != 1 || plan[0].Type != TypeTrueFalse || plan[0].Quantity != 8 {
		t.Fatalf("expected true_false x8, got %+v", plan)
	}
}

func TestBuildPlan_MultipleEnabledTypesPassThroughQuantities(t *testing.T) {
	types := map[QuestionType]QuestionTypeSetting{
		TypeMultipleChoice: {Enabled: true, Quantity: 4},
		TypeTrueFalse:      {Enabled: true, Quantity: 3},
		TypeFillInBlank:    {Enabled: true, Quantity: 0},
		TypeSelectAll:      {Enabled: false, Quantity: 7},
	}
	plan, err := BuildPlan(types, 10)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}

	// Registration order: fill_in_blank would come before multiple_choice but
	// is dropped for zero quantity; select_all is disabled.
	want := []PlanEntry{
		{Type: TypeMultipleChoice, Quantity: 4},
		{Type: TypeTrueFalse, Quantity: 3},
	}
	if len(plan) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), plan)
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], plan[i])
		}
	}

	// Quantities are passthrough, not reconciled: 4+3 != 10 and that is the
	// intended behavior.
	if PlanTotal(plan) == 10 {
		t.Error("plan total should not be reconciled to the requested total")
	}
	if PlanTotal(plan) != 7 {
		t.Errorf("expected plan total 7, got %d", PlanTotal(plan))
	}
}

func TestBuildPlan_QuantitiesClampedToTotal(t *testing.T) {
	types := map[QuestionType]QuestionTypeSetting{
		TypeMultipleChoice: {Enabled: true, Quantity: 25},
		TypeTrueFalse:      {Enabled: true, Quantity: -2},
	}
	plan, err := BuildPlan(types, 10)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected 1 entry after dropping negative quantity, got %+v", plan)
	}
	if plan[0].Quantity != 10 {
		t.Errorf("expected quantity clamped to 10, got %d", plan[0].Quantity)
	}
}

func TestBuildPlan_AllZeroQuantitiesFallsBackToFirstEnabled(t *testing.T) {
	types := map[QuestionType]QuestionTypeSetting{
		TypeTrueFalse:     {Enabled: true, Quantity: 0},
		TypeMatchingPairs: {Enabled: true, Quantity: 0},
	}
	plan, err := BuildPlan(types, 6)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	// matching_pairs registers before true_false.
	if len(plan) != 1 || plan[0].Type != TypeMatchingPairs || plan[0].Quantity != 6 {
		t.Fatalf("expected matching_pairs x6, got %+v", plan)
	}
}

func TestBuildPlan_NonPositiveTotal(t *testing.T) {
	for _, total := range []int{0, -5} {
		_, err := BuildPlan(nil, total)
		if !IsKind(err, ErrPlanEmpty) {
			t.Errorf("total %d: expected plan_empty error, got %v", total, err)
		}
	}
}
