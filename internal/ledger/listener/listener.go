package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// MovementListener consumes movement requests published by external
// workflows (receiving, kitting, floor scanners) and feeds them through the
// same event-application path the HTTP surface uses.
type MovementListener struct {
	reader messageReader
	uc     ledger.UseCase
	logger *zap.Logger
}

func NewMovementListener(reader *kafka.Reader, uc ledger.UseCase, logger *zap.Logger) *MovementListener {
	return &MovementListener{
		reader: reader,
		uc:     uc,
		logger: logger,
	}
}

func (l *MovementListener) Start(ctx context.Context) {
	l.logger.Info("starting movement request listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping movement request listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type MovementRequestedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   MovementPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type MovementPayload struct {
	TenantID       string          `json:"tenant_id"`
	SiteID         string          `json:"site_id"`
	MovementType   string          `json:"movement_type"`
	ItemID         string          `json:"item_id"`
	Qty            decimal.Decimal `json:"qty"`
	UOM            string          `json:"uom"`
	FromLocationID *string         `json:"from_location_id"`
	ToLocationID   *string         `json:"to_location_id"`
	ReasonCodeID   *string         `json:"reason_code_id"`
	ActorID        string          `json:"actor_id"`
	ActorRole      string          `json:"actor_role"`
	DeviceID       *string         `json:"device_id"`
	Notes          string          `json:"notes"`
}

func (l *MovementListener) processMessage(ctx context.Context, value []byte) {
	var event MovementRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "MovementRequested" {
		return
	}

	l.logger.Info("processing movement request", zap.String("event_id", event.EventID))

	role := event.Payload.ActorRole
	if role == "" {
		role = auth.RoleOperator
	}
	actor := auth.Actor{
		ID:       event.Payload.ActorID,
		TenantID: event.Payload.TenantID,
		Role:     role,
	}

	// The upstream event id rides along as reference id; application is not
	// idempotent, so redeliveries are de-duplicated downstream through it.
	refID := event.EventID
	input := &dto.ApplyEventInput{
		TenantID:       event.Payload.TenantID,
		SiteID:         event.Payload.SiteID,
		EventType:      model.EventType(event.Payload.MovementType),
		ItemID:         event.Payload.ItemID,
		QtyEntered:     event.Payload.Qty,
		UOMEntered:     event.Payload.UOM,
		FromLocationID: event.Payload.FromLocationID,
		ToLocationID:   event.Payload.ToLocationID,
		ReasonCodeID:   event.Payload.ReasonCodeID,
		ReferenceID:    &refID,
		Notes:          event.Payload.Notes,
		DeviceID:       event.Payload.DeviceID,
	}

	if _, err := l.uc.ApplyEvent(ctx, actor, input); err != nil {
		l.logger.Error("failed to apply movement request",
			zap.String("event_id", event.EventID),
			zap.String("item_id", event.Payload.ItemID),
			zap.Error(err),
		)
	}
}
