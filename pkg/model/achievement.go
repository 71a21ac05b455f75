package model

// Achievement condition metrics.
const (
	MetricOrders    = "orders"
	MetricFiveStars = "fiveStars"
	MetricFourStars = "fourStars"
)

// Achievement condition comparators. The reference behavior is exact
// equality; an empty comparator means ComparatorEqual.
const (
	ComparatorEqual   = "eq"
	ComparatorAtLeast = "gte"
)

// AchievementCondition pairs a chef statistic with a target quantity.
type AchievementCondition struct {
	Metric     string `json:"metric" bson:"metric" validate:"required,oneof=orders fiveStars fourStars"`
	Comparator string `json:"comparator,omitempty" bson:"comparator,omitempty" validate:"omitempty,oneof=eq gte"`
	Target     int64  `json:"target" bson:"target" validate:"required,min=1"`
}

// Matches evaluates the condition against a statistic value.
func (c AchievementCondition) Matches(value int64) bool {
	if c.Comparator == ComparatorAtLeast {
		return value >= c.Target
	}
	return value == c.Target
}

// StatValue picks the statistic this condition reads. Unknown metrics
// return -1 so they never match.
func (c AchievementCondition) StatValue(stats ChefStats) int64 {
	switch c.Metric {
	case MetricOrders:
		return stats.CompletedOrders
	case MetricFiveStars:
		return stats.FiveStars
	case MetricFourStars:
		return stats.FourStars
	}
	return -1
}

// Achievement is an administrator-defined goal. Read-only from the
// evaluator's perspective; a chef unlocks it when every condition matches.
type Achievement struct {
	ID         string                 `json:"id,omitempty" bson:"_id,omitempty"`
	Label      string                 `json:"label" bson:"label" validate:"required,min=2,max=100"`
	Image      string                 `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,url"`
	Conditions []AchievementCondition `json:"conditions" bson:"conditions" validate:"required,min=1,dive"`
}

// MatchedBy reports whether the chef's statistics satisfy every condition.
func (a *Achievement) MatchedBy(stats ChefStats) bool {
	if len(a.Conditions) == 0 {
		return false
	}
	for _, cond := range a.Conditions {
		if !cond.Matches(cond.StatValue(stats)) {
			return false
		}
	}
	return true
}
