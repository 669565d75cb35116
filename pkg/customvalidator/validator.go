package customvalidator

import (
	"reflect"
	"strings"
	"time"

	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations registers the domain tags and teaches the
// validator to look inside aarondl null types.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	if err := v.RegisterValidation("date_ymd", isDateYMD); err != nil {
		return err
	}
	if err := v.RegisterValidation("departure_reason", isDepartureReason); err != nil {
		return err
	}
	if err := v.RegisterValidation("work_order_type", isWorkOrderType); err != nil {
		return err
	}
	if err := v.RegisterValidation("equipment_status", isStoredEquipmentStatus); err != nil {
		return err
	}

	return nil
}

func isDateYMD(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := time.Parse(constants.DateLayout, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isDepartureReason(fl validator.FieldLevel) bool {
	reason := constants.DepartureReason(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	for _, r := range constants.DepartureReasonList {
		if r == reason {
			return true
		}
	}
	return false
}

func isWorkOrderType(fl validator.FieldLevel) bool {
	return constants.IsWorkOrderType(constants.WorkOrderType(fl.Field().String()))
}

func isStoredEquipmentStatus(fl validator.FieldLevel) bool {
	return constants.IsStoredEquipmentStatus(constants.EquipmentStatus(fl.Field().String()))
}

// registerNullTypes unwraps null.String / null.Int / null.Time; an invalid
// value is reported as nil so that omitempty applies.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int); ok && val.Valid {
			return val.Int
		}
		return nil
	}, null.Int{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
