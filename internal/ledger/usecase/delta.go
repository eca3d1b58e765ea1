package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

// touchedLocations lists every location whose balance the event may change,
// in the order from-then-to. The repository locks and reads exactly these.
func touchedLocations(t model.EventType, from, to *string) []string {
	var locs []string
	use := func(p *string) {
		if p != nil && *p != "" {
			locs = append(locs, *p)
		}
	}
	switch t {
	case model.EventReceive, model.EventReturn, model.EventCount:
		use(to)
	case model.EventScrap:
		use(from)
	case model.EventAdjust:
		use(from)
		use(to)
	default: // MOVE, ISSUE, HOLD, RELEASE
		use(from)
		use(to)
	}
	return locs
}

// eventDeltas maps one event onto signed per-location balance changes.
// Pure except for COUNT, whose delta is counted minus what current records:
//
//	RECEIVE           +qty at to
//	MOVE/ISSUE/RETURN -qty at from (if present), +qty at to (if present)
//	HOLD/RELEASE      same shape as MOVE
//	SCRAP             -qty at from, nothing compensating
//	COUNT             counted - recorded at to
//	ADJUST            signed qty at its single location
func eventDeltas(t model.EventType, qtyBase decimal.Decimal, from, to *string, current map[string]decimal.Decimal) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	switch t {
	case model.EventReceive, model.EventReturn:
		deltas[*to] = qtyBase
	case model.EventScrap:
		deltas[*from] = qtyBase.Neg()
	case model.EventCount:
		deltas[*to] = qtyBase.Sub(current[*to])
	case model.EventAdjust:
		loc := to
		if loc == nil || *loc == "" {
			loc = from
		}
		deltas[*loc] = qtyBase
	default: // MOVE, ISSUE, HOLD, RELEASE
		if from != nil && *from != "" {
			deltas[*from] = qtyBase.Neg()
		}
		if to != nil && *to != "" {
			deltas[*to] = qtyBase
		}
	}
	return deltas
}

// checkNonNegative simulates every post-application balance before any write.
// One negative result rejects the whole event; a privileged ADJUST is the
// sole sanctioned override.
func checkNonNegative(current, deltas map[string]decimal.Decimal, allowNegative bool) error {
	if allowNegative {
		return nil
	}
	for loc, delta := range deltas {
		if current[loc].Add(delta).IsNegative() {
			return fmt.Errorf("%w: location %s", ledger.ErrNegativeBalancePrevented, loc)
		}
	}
	return nil
}
