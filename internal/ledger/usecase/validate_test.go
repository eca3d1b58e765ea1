package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

func validInput(typ model.EventType) *dto.ApplyEventInput {
	from, to, reason := "A", "B", "rc"
	in := &dto.ApplyEventInput{
		TenantID:   tenant,
		SiteID:     site,
		ItemID:     itemX,
		EventType:  typ,
		QtyEntered: decimal.NewFromInt(1),
		UOMEntered: "FT",
	}
	switch typ {
	case model.EventReceive, model.EventReturn, model.EventCount:
		in.ToLocationID = &to
	case model.EventScrap:
		in.FromLocationID = &from
		in.ReasonCodeID = &reason
	case model.EventAdjust:
		in.ToLocationID = &to
		in.ReasonCodeID = &reason
	case model.EventHold:
		in.FromLocationID = &from
		in.ToLocationID = &to
		in.ReasonCodeID = &reason
	default:
		in.FromLocationID = &from
		in.ToLocationID = &to
	}
	return in
}

func TestValidateInput_LocationRequirements(t *testing.T) {
	tests := []struct {
		name     string
		typ      model.EventType
		dropFrom bool
		dropTo   bool
		wantErr  bool
	}{
		{name: "receive needs to", typ: model.EventReceive, dropTo: true, wantErr: true},
		{name: "move needs from", typ: model.EventMove, dropFrom: true, wantErr: true},
		{name: "move needs to", typ: model.EventMove, dropTo: true, wantErr: true},
		{name: "issue needs from", typ: model.EventIssue, dropFrom: true, wantErr: true},
		{name: "issue to is optional", typ: model.EventIssue, dropTo: true, wantErr: false},
		{name: "return needs to", typ: model.EventReturn, dropTo: true, wantErr: true},
		{name: "scrap needs from", typ: model.EventScrap, dropFrom: true, wantErr: true},
		{name: "hold needs both", typ: model.EventHold, dropFrom: true, wantErr: true},
		{name: "release needs both", typ: model.EventRelease, dropTo: true, wantErr: true},
		{name: "count needs to", typ: model.EventCount, dropTo: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(tt.typ)
			if tt.dropFrom {
				in.FromLocationID = nil
			}
			if tt.dropTo {
				in.ToLocationID = nil
			}
			err := validateInput(admin, in)
			if tt.wantErr {
				var verr *ledger.ValidationError
				assert.ErrorAs(t, err, &verr, "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateInput_AdjustTakesExactlyOneLocation(t *testing.T) {
	from := "A"

	in := validInput(model.EventAdjust)
	in.FromLocationID = &from // now both sides set
	var verr *ledger.ValidationError
	assert.ErrorAs(t, validateInput(admin, in), &verr)

	in = validInput(model.EventAdjust)
	in.ToLocationID = nil // now neither
	assert.ErrorAs(t, validateInput(admin, in), &verr)
}

func TestValidateInput_UnknownEventType(t *testing.T) {
	in := validInput(model.EventReceive)
	in.EventType = "TELEPORT"
	var verr *ledger.ValidationError
	assert.ErrorAs(t, validateInput(operator, in), &verr)
}

func TestValidateInput_QuantitySigns(t *testing.T) {
	in := validInput(model.EventReceive)
	in.QtyEntered = decimal.NewFromInt(-1)
	var verr *ledger.ValidationError
	assert.ErrorAs(t, validateInput(operator, in), &verr)

	in = validInput(model.EventMove)
	in.QtyEntered = decimal.Zero
	assert.ErrorAs(t, validateInput(operator, in), &verr)

	in = validInput(model.EventCount)
	in.QtyEntered = decimal.NewFromInt(-3)
	assert.ErrorAs(t, validateInput(admin, in), &verr)

	// Counting zero is a legitimate reconciliation.
	in = validInput(model.EventCount)
	in.QtyEntered = decimal.Zero
	assert.NoError(t, validateInput(admin, in))

	in = validInput(model.EventAdjust)
	in.QtyEntered = decimal.Zero
	assert.ErrorAs(t, validateInput(admin, in), &verr)
}

func TestValidateInput_SameFromAndTo(t *testing.T) {
	loc := "A"
	in := validInput(model.EventMove)
	in.FromLocationID = &loc
	in.ToLocationID = &loc
	var verr *ledger.ValidationError
	assert.ErrorAs(t, validateInput(operator, in), &verr)
}

func TestValidateInput_RoleGate(t *testing.T) {
	assert.ErrorIs(t, validateInput(operator, validInput(model.EventAdjust)), ledger.ErrPermissionDenied)
	assert.ErrorIs(t, validateInput(operator, validInput(model.EventCount)), ledger.ErrPermissionDenied)
	assert.NoError(t, validateInput(admin, validInput(model.EventCount)))
	supervisor := auth.Actor{ID: "u-sup", TenantID: tenant, Role: auth.RoleSupervisor}
	assert.NoError(t, validateInput(supervisor, validInput(model.EventAdjust)))
	assert.NoError(t, validateInput(operator, validInput(model.EventMove)))
}

func TestValidateInput_TenantMismatch(t *testing.T) {
	in := validInput(model.EventReceive)
	in.TenantID = "someone-else"
	assert.ErrorIs(t, validateInput(operator, in), ledger.ErrTenantMismatch)
}
