package usecase

import (
	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type locationRule struct {
	fromRequired bool
	toRequired   bool
}

// ISSUE is absent here: from is required and to is optional (present when
// the issue lands in a workcell, absent for plain consumption). ADJUST is
// absent too: it takes exactly one location, either side.
var locationRules = map[model.EventType]locationRule{
	model.EventReceive: {fromRequired: false, toRequired: true},
	model.EventMove:    {fromRequired: true, toRequired: true},
	model.EventReturn:  {fromRequired: false, toRequired: true},
	model.EventScrap:   {fromRequired: true, toRequired: false},
	model.EventHold:    {fromRequired: true, toRequired: true},
	model.EventRelease: {fromRequired: true, toRequired: true},
	model.EventCount:   {fromRequired: false, toRequired: true},
}

// validateInput enforces everything that does not need a repository read:
// event-type membership, tenant ownership, quantity sign, per-type location
// requirements, reason-code presence, and the role gate.
func validateInput(actor auth.Actor, input *dto.ApplyEventInput) error {
	if !input.EventType.Valid() {
		return validationErr("eventType", "unknown event type "+string(input.EventType))
	}
	if actor.TenantID == "" || input.TenantID != actor.TenantID {
		return ledger.ErrTenantMismatch
	}
	if input.ItemID == "" {
		return validationErr("itemId", "item id is required")
	}
	if input.SiteID == "" {
		return validationErr("siteId", "site id is required")
	}

	switch input.EventType {
	case model.EventCount:
		if input.QtyEntered.IsNegative() {
			return validationErr("qtyEntered", "counted quantity cannot be negative")
		}
	case model.EventAdjust:
		if input.QtyEntered.IsZero() {
			return validationErr("qtyEntered", "adjustment quantity cannot be zero")
		}
	default:
		if input.QtyEntered.Sign() <= 0 {
			return validationErr("qtyEntered", "quantity must be positive")
		}
	}

	hasFrom := input.FromLocationID != nil && *input.FromLocationID != ""
	hasTo := input.ToLocationID != nil && *input.ToLocationID != ""

	switch input.EventType {
	case model.EventIssue:
		if !hasFrom {
			return validationErr("fromLocationId", "required for ISSUE")
		}
	case model.EventAdjust:
		if hasFrom == hasTo {
			return validationErr("locations", "ADJUST takes exactly one location")
		}
	default:
		rule := locationRules[input.EventType]
		if rule.fromRequired && !hasFrom {
			return validationErr("fromLocationId", "required for "+string(input.EventType))
		}
		if rule.toRequired && !hasTo {
			return validationErr("toLocationId", "required for "+string(input.EventType))
		}
	}

	if hasFrom && hasTo && *input.FromLocationID == *input.ToLocationID {
		return validationErr("locations", "from and to locations must differ")
	}

	if input.EventType.RequiresReason() && (input.ReasonCodeID == nil || *input.ReasonCodeID == "") {
		return validationErr("reasonCodeId", "required for "+string(input.EventType))
	}

	if input.EventType.Restricted() && !actor.Privileged() {
		return ledger.ErrPermissionDenied
	}

	return nil
}

func validationErr(field, msg string) error {
	return &ledger.ValidationError{Field: field, Msg: msg}
}
