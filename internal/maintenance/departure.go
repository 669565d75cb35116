package maintenance

import (
	"strings"

	"biomed-system/pkg/constants"
)

// DepartureRule is what a departure reason implies for the order and the equipment.
type DepartureRule struct {
	WorkOrderStatus constants.WorkOrderStatus `json:"workOrderStatus"`
	EquipmentStatus constants.EquipmentStatus `json:"equipmentStatus"`
}

// DepartureReasons is the single reason → status table used wherever equipment leaves the premises.
var DepartureReasons = map[constants.DepartureReason]DepartureRule{
	constants.ReasonLoan:               {constants.StatusOnLoan, constants.EquipmentLoan},
	constants.ReasonDonation:           {constants.StatusOtherDeparture, constants.EquipmentDonation},
	constants.ReasonReturn:             {constants.StatusReturned, constants.EquipmentReturn},
	constants.ReasonDiagnosis:          {constants.StatusForDiagnosis, constants.EquipmentDiagnosis},
	constants.ReasonExternalPreventive: {constants.StatusExternalPreventive, constants.EquipmentPreventiveExternal},
	constants.ReasonExternalCorrective: {constants.StatusExternalCorrective, constants.EquipmentCorrectiveExternal},
	constants.ReasonOther:              {constants.StatusOtherDeparture, constants.EquipmentOther},
}

func LookupDeparture(reason string) (DepartureRule, bool) {
	rule, ok := DepartureReasons[constants.DepartureReason(strings.ToLower(strings.TrimSpace(reason)))]
	return rule, ok
}
