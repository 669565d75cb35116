package maintenance

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"biomed-system/internal/entities"

	"github.com/aarondl/null/v8"
)

// ReportRow is one equipment line of the annual maintenance report.
type ReportRow struct {
	Equipment       entities.Equipment   `json:"equipment"`
	Area            string               `json:"area"`
	InventoryNumber string               `json:"inventoryNumber"`
	Months          [12]null.String      `json:"months"`
	Visits          []VisitResult        `json:"visits"`
	Aggregate       AggregateStatus      `json:"aggregate"`
	EffectiveStatus StatusDisplayed      `json:"effectiveStatus"`
	Schedule        []Visit              `json:"schedule"`
	ClosedOrders    []entities.WorkOrder `json:"closedOrders"`
}

// BuildAnnualReport assembles the report rows for year. Work orders that
// reference equipment missing from equipment are ignored. Rows are sorted by
// area and then by inventory number.
func BuildAnnualReport(equipment []entities.Equipment, workOrders []entities.WorkOrder, year int, today time.Time) []ReportRow {
	byEquipment := make(map[string][]entities.WorkOrder, len(equipment))
	known := make(map[string]struct{}, len(equipment))
	for _, eq := range equipment {
		known[eq.ID] = struct{}{}
	}
	for _, wo := range workOrders {
		if _, ok := known[wo.EquipmentID]; !ok {
			continue
		}
		byEquipment[wo.EquipmentID] = append(byEquipment[wo.EquipmentID], wo)
	}

	rows := make([]ReportRow, 0, len(equipment))
	for _, eq := range equipment {
		rows = append(rows, buildRow(eq, byEquipment[eq.ID], year, today))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := strings.ToLower(rows[i].Area), strings.ToLower(rows[j].Area)
		if ai != aj {
			return ai < aj
		}
		if c := naturalCompare(rows[i].InventoryNumber, rows[j].InventoryNumber); c != 0 {
			return c < 0
		}
		return rows[i].Equipment.ID < rows[j].Equipment.ID
	})
	return rows
}

func buildRow(eq entities.Equipment, orders []entities.WorkOrder, year int, today time.Time) ReportRow {
	schedule := ComputeSchedule(eq, year)
	closed := ClosedPreventiveForYear(orders, eq.ID, year, today.Location())
	if closed == nil {
		closed = []entities.WorkOrder{}
	}
	visits := ClassifySchedule(schedule, closed, today)
	effective := ResolveEffectiveStatus(eq, orders)

	row := ReportRow{
		Equipment:       eq,
		Area:            AreaOf(eq.Location),
		InventoryNumber: InventoryNumberOf(eq),
		Visits:          visits,
		Aggregate:       AggregateVisits(visits),
		EffectiveStatus: StatusDisplayed{Status: effective, StatusDisplay: DisplayFor(effective)},
		Schedule:        schedule,
		ClosedOrders:    closed,
	}
	for i, label := range MonthSlots(schedule) {
		if label != "" {
			row.Months[i] = null.StringFrom(label)
		}
	}
	return row
}

// DanglingOrders returns the work orders whose equipment is not in equipment.
func DanglingOrders(equipment []entities.Equipment, workOrders []entities.WorkOrder) []entities.WorkOrder {
	known := make(map[string]struct{}, len(equipment))
	for _, eq := range equipment {
		known[eq.ID] = struct{}{}
	}
	var out []entities.WorkOrder
	for _, wo := range workOrders {
		if _, ok := known[wo.EquipmentID]; !ok {
			out = append(out, wo)
		}
	}
	return out
}

// AreaOf extracts the area from an "Area - Sub-location" location.
func AreaOf(location string) string {
	area, _, _ := strings.Cut(location, " - ")
	return strings.TrimSpace(area)
}

// InventoryNumberOf is the equipment's inventory number, or its id when none was recorded.
func InventoryNumberOf(eq entities.Equipment) string {
	if n := strings.TrimSpace(eq.InventoryNumber); n != "" {
		return n
	}
	return eq.ID
}

// naturalCompare orders strings with embedded numbers by numeric value ("EQ-2" < "EQ-10").
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		ca, cb := rune(a[0]), rune(b[0])
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, restA := leadingDigits(a)
			nb, restB := leadingDigits(b)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			a, b = restA, restB
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func leadingDigits(s string) (uint64, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		n = ^uint64(0)
	}
	return n, s[i:]
}
