package model

import "testing"

func TestAchievementConditionMatches(t *testing.T) {
	tests := []struct {
		name  string
		cond  AchievementCondition
		value int64
		want  bool
	}{
		{"default comparator is exact match", AchievementCondition{Metric: MetricOrders, Target: 10}, 10, true},
		{"exact match rejects overshoot", AchievementCondition{Metric: MetricOrders, Target: 10}, 11, false},
		{"exact match rejects undershoot", AchievementCondition{Metric: MetricOrders, Target: 10}, 9, false},
		{"explicit eq", AchievementCondition{Metric: MetricFiveStars, Comparator: ComparatorEqual, Target: 5}, 5, true},
		{"gte accepts overshoot", AchievementCondition{Metric: MetricOrders, Comparator: ComparatorAtLeast, Target: 10}, 15, true},
		{"gte rejects undershoot", AchievementCondition{Metric: MetricOrders, Comparator: ComparatorAtLeast, Target: 10}, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%d) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestAchievementMatchedBy(t *testing.T) {
	stats := ChefStats{CompletedOrders: 10, FiveStars: 3, FourStars: 7}

	all := &Achievement{
		Label: "Rising Star",
		Conditions: []AchievementCondition{
			{Metric: MetricOrders, Target: 10},
			{Metric: MetricFiveStars, Target: 3},
		},
	}
	if !all.MatchedBy(stats) {
		t.Error("achievement with all conditions satisfied should match")
	}

	partial := &Achievement{
		Label: "Veteran",
		Conditions: []AchievementCondition{
			{Metric: MetricOrders, Target: 10},
			{Metric: MetricFourStars, Target: 100},
		},
	}
	if partial.MatchedBy(stats) {
		t.Error("achievement with one unsatisfied condition should not match")
	}

	empty := &Achievement{Label: "Empty"}
	if empty.MatchedBy(stats) {
		t.Error("achievement without conditions should never match")
	}

	unknown := &Achievement{
		Label:      "Weird",
		Conditions: []AchievementCondition{{Metric: "likes", Target: 1}},
	}
	if unknown.MatchedBy(stats) {
		t.Error("unknown metric should never match")
	}
}
