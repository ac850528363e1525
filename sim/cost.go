package sim

const (
	// DefaultMoveCost is charged for every committed forklift step.
	DefaultMoveCost = 0.25
	// DefaultTimeCost is charged for every elapsed second.
	DefaultTimeCost = 0.10
)

// CostModel maps a run's moves and elapsed seconds to a monetary cost.
type CostModel struct {
	MoveCost float64 `yaml:"move_cost"`
	TimeCost float64 `yaml:"time_cost"`
}

// DefaultCostModel returns the standard per-move and per-second rates.
func DefaultCostModel() CostModel {
	return CostModel{MoveCost: DefaultMoveCost, TimeCost: DefaultTimeCost}
}

// Cost returns moves*MoveCost + seconds*TimeCost.
func (m CostModel) Cost(moves int, seconds int64) float64 {
	return float64(moves)*m.MoveCost + float64(seconds)*m.TimeCost
}
