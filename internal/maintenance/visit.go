package maintenance

import (
	"sort"
	"time"

	"biomed-system/internal/entities"
	"biomed-system/pkg/constants"
)

type VisitStatus string

const (
	VisitDone          VisitStatus = "DONE"
	VisitOverdue       VisitStatus = "OVERDUE"
	VisitUpcoming      VisitStatus = "UPCOMING"
	VisitNotApplicable VisitStatus = "NOT_APPLICABLE"
)

var visitStatusText = map[VisitStatus]string{
	VisitDone:          "Hecho",
	VisitOverdue:       "Vencido",
	VisitUpcoming:      "Por Hacer",
	VisitNotApplicable: "",
}

// Text is the label shown in the annual report cell.
func (s VisitStatus) Text() string {
	return visitStatusText[s]
}

// VisitResult is the classification of one scheduled visit.
type VisitResult struct {
	Visit       Visit       `json:"visit"`
	Ordinal     int         `json:"ordinal"`
	Status      VisitStatus `json:"status"`
	Text        string      `json:"text"`
	DueDate     time.Time   `json:"dueDate"`
	WorkOrderID string      `json:"workOrderId,omitempty"`
}

// ClassifyVisit decides whether the visit at position ordinal is done, overdue or upcoming.
// closed must hold the equipment's closed preventive orders for the visit's year,
// oldest first. The n-th closed order satisfies the n-th visit whatever its date.
func ClassifyVisit(v Visit, closed []entities.WorkOrder, ordinal int, today time.Time) VisitResult {
	result := VisitResult{Visit: v, Ordinal: ordinal}
	if v.Month < 0 || v.Month > 11 || ordinal < 0 {
		result.Status = VisitNotApplicable
		return result
	}

	result.DueDate = DueDate(v.Year, v.Month, today.Location())

	switch {
	case len(closed) > ordinal:
		result.Status = VisitDone
		result.WorkOrderID = closed[ordinal].ID
	case result.DueDate.Before(today):
		result.Status = VisitOverdue
	default:
		result.Status = VisitUpcoming
	}
	result.Text = result.Status.Text()
	return result
}

// ClassifySchedule runs ClassifyVisit over every visit, using its index as ordinal.
func ClassifySchedule(schedule []Visit, closed []entities.WorkOrder, today time.Time) []VisitResult {
	results := make([]VisitResult, 0, len(schedule))
	for i, v := range schedule {
		results = append(results, ClassifyVisit(v, closed, i, today))
	}
	return results
}

// ClosedPreventiveForYear selects the closed preventive orders of one equipment
// whose completion falls in year (evaluated in loc), ordered by completion time
// and then by id.
func ClosedPreventiveForYear(orders []entities.WorkOrder, equipmentID string, year int, loc *time.Location) []entities.WorkOrder {
	if loc == nil {
		loc = time.Local
	}
	var out []entities.WorkOrder
	for _, wo := range orders {
		if wo.EquipmentID != equipmentID || wo.Type != constants.TypePreventive || !wo.IsClosed() {
			continue
		}
		if wo.CompletedAt().In(loc).Year() != year {
			continue
		}
		out = append(out, wo)
	}
	sortByCompletion(out)
	return out
}

func sortByCompletion(orders []entities.WorkOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		ti, tj := orders[i].CompletedAt(), orders[j].CompletedAt()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return orders[i].ID < orders[j].ID
	})
}

// --- Aggregate (equipment level) ---

type AggregateCode string

const (
	AggregateNotApplicable AggregateCode = "NOT_APPLICABLE"
	AggregateOverdue       AggregateCode = "OVERDUE"
	AggregateOK            AggregateCode = "OK"
	AggregateOnTime        AggregateCode = "ON_TIME"
	AggregatePending       AggregateCode = "PENDING"
)

// AggregateStatus is the "Status" column of the annual report.
type AggregateStatus struct {
	Code    AggregateCode `json:"code"`
	Label   string        `json:"label"`
	Total   int           `json:"total"`
	Done    int           `json:"done"`
	Overdue int           `json:"overdue"`
}

// AggregateVisits folds visit results into one status. Overdue visits win over
// everything else, then all-done, then partially done.
func AggregateVisits(results []VisitResult) AggregateStatus {
	agg := AggregateStatus{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case VisitDone:
			agg.Done++
		case VisitOverdue:
			agg.Overdue++
		}
	}

	switch {
	case agg.Total == 0:
		agg.Code, agg.Label = AggregateNotApplicable, "N/A"
	case agg.Overdue > 1:
		agg.Code, agg.Label = AggregateOverdue, "Vencidos"
	case agg.Overdue == 1:
		agg.Code, agg.Label = AggregateOverdue, "Vencido"
	case agg.Done == agg.Total:
		agg.Code, agg.Label = AggregateOK, "OK"
	case agg.Done > 0:
		agg.Code, agg.Label = AggregateOnTime, "En tiempo"
	default:
		agg.Code, agg.Label = AggregatePending, "Pendiente"
	}
	return agg
}
