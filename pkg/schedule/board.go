package schedule

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Board splits rows into the three Kanban columns, each in store order.
type Board struct {
	ToDo       []model.Task `json:"to_do"`
	InProgress []model.Task `json:"in_progress"`
	Done       []model.Task `json:"done"`
}

func Kanban(rows []model.Task) Board {
	var b Board
	for _, t := range rows {
		switch {
		case t.Status.Finished():
			b.Done = append(b.Done, t.Clone())
		case t.Status == model.StatusInProgress:
			b.InProgress = append(b.InProgress, t.Clone())
		default:
			b.ToDo = append(b.ToDo, t.Clone())
		}
	}
	return b
}

// Metric is an aggregate that may have no defined value. It marshals to null
// and prints "n/a" when unavailable, never to zero.
type Metric struct {
	Value     float64
	Available bool
}

// MetricOf turns an aggregate result into a Metric. Errors other than
// model.ErrNotComputable are returned unchanged.
func MetricOf(v float64, err error) (Metric, error) {
	if err != nil {
		if errors.Is(err, model.ErrNotComputable) {
			return Metric{}, nil
		}
		return Metric{}, err
	}
	return Metric{Value: v, Available: true}, nil
}

func (m Metric) Format(prec int) string {
	if !m.Available {
		return "n/a"
	}
	return strconv.FormatFloat(m.Value, 'f', prec, 64)
}

func (m Metric) String() string { return m.Format(2) }

// Float returns the value, or NaN when unavailable.
func (m Metric) Float() float64 {
	if !m.Available {
		return math.NaN()
	}
	return m.Value
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Available {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Health is the project dashboard in one value.
type Health struct {
	Rows            int     `json:"rows"`
	BurnRate        Metric  `json:"burn_rate"`
	OverallProgress Metric  `json:"overall_progress"`
	TotalBudget     float64 `json:"total_budget"`
	TotalCost       float64 `json:"total_cost"`
	Delayed         int     `json:"delayed"`
}

func Summarize(rows []model.Task, today model.Date) Health {
	h := Health{Rows: len(rows), Delayed: len(Delayed(rows, today))}
	for _, t := range rows {
		h.TotalBudget += t.Budget
		h.TotalCost += t.Cost
	}
	// Only ErrNotComputable can come back from these two.
	h.BurnRate, _ = MetricOf(BurnRate(rows))
	h.OverallProgress, _ = MetricOf(OverallProgress(rows))
	return h
}
