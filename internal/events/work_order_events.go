package events

const (
	WorkOrderChanged = "work_order.changed"
	EquipmentChanged = "equipment.changed"
)

// WorkOrderChangedEvent is published after a work order mutation has been committed.
type WorkOrderChangedEvent struct {
	WorkOrderID string
	EquipmentID string
	Action      string
}

func (e WorkOrderChangedEvent) Name() string {
	return WorkOrderChanged
}

// EquipmentChangedEvent is published after equipment records were created,
// edited or imported. EquipmentID is empty for bulk imports.
type EquipmentChangedEvent struct {
	EquipmentID string
	Reason      string
}

func (e EquipmentChangedEvent) Name() string {
	return EquipmentChanged
}
