package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklog/wms-inventory-service/internal/auth"
	"github.com/stocklog/wms-inventory-service/internal/ledger"
	"github.com/stocklog/wms-inventory-service/internal/ledger/dto"
	"github.com/stocklog/wms-inventory-service/internal/model"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger *zap.Logger
}

func NewLedgerHandler(uc ledger.UseCase, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LedgerHandler) Register(app *fiber.App) {
	v1 := app.Group("/v1/inventory")
	v1.Post("/events", h.ApplyEvent)
	v1.Post("/convert", h.ConvertQuantity)
	v1.Get("/balances", h.ListBalances)
	v1.Get("/items/:itemId/locations/:locationId/balance", h.GetBalance)
	v1.Get("/events", h.ListEvents)
}

type applyEventRequest struct {
	SiteID         string          `json:"siteId"`
	EventType      string          `json:"eventType"`
	ItemID         string          `json:"itemId"`
	QtyEntered     decimal.Decimal `json:"qtyEntered"`
	UOMEntered     string          `json:"uomEntered"`
	FromLocationID *string         `json:"fromLocationId"`
	ToLocationID   *string         `json:"toLocationId"`
	ReasonCodeID   *string         `json:"reasonCodeId"`
	ReferenceID    *string         `json:"referenceId"`
	Notes          string          `json:"notes"`
}

type eventResponse struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	SiteID         string    `json:"siteId"`
	EventType      string    `json:"eventType"`
	ItemID         string    `json:"itemId"`
	QtyEntered     string    `json:"qtyEntered"`
	UOMEntered     string    `json:"uomEntered"`
	QtyBase        string    `json:"qtyBase"`
	FromLocationID *string   `json:"fromLocationId,omitempty"`
	ToLocationID   *string   `json:"toLocationId,omitempty"`
	ReasonCodeID   *string   `json:"reasonCodeId,omitempty"`
	ReferenceID    *string   `json:"referenceId,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	ActorID        string    `json:"actorId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toEventResponse(ev *model.InventoryEvent) eventResponse {
	return eventResponse{
		ID:             ev.ID,
		TenantID:       ev.TenantID,
		SiteID:         ev.SiteID,
		EventType:      string(ev.EventType),
		ItemID:         ev.ItemID,
		QtyEntered:     ev.QtyEntered.String(),
		UOMEntered:     ev.UOMEntered,
		QtyBase:        ev.QtyBase.String(),
		FromLocationID: ev.FromLocationID,
		ToLocationID:   ev.ToLocationID,
		ReasonCodeID:   ev.ReasonCodeID,
		ReferenceID:    ev.ReferenceID,
		Notes:          ev.Notes,
		ActorID:        ev.ActorID,
		CreatedAt:      ev.CreatedAt,
	}
}

func (h *LedgerHandler) ApplyEvent(c *fiber.Ctx) error {
	var req applyEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	actor := auth.ActorFromRequest(c)
	input := &dto.ApplyEventInput{
		TenantID:       actor.TenantID,
		SiteID:         req.SiteID,
		EventType:      model.EventType(req.EventType),
		ItemID:         req.ItemID,
		QtyEntered:     req.QtyEntered,
		UOMEntered:     req.UOMEntered,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		ReasonCodeID:   req.ReasonCodeID,
		ReferenceID:    req.ReferenceID,
		Notes:          req.Notes,
		DeviceID:       auth.DeviceFromRequest(c),
	}

	ev, err := h.uc.ApplyEvent(c.UserContext(), actor, input)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEventResponse(ev))
}

type convertRequest struct {
	ItemID     string          `json:"itemId"`
	QtyEntered decimal.Decimal `json:"qtyEntered"`
	UOMEntered string          `json:"uomEntered"`
}

func (h *LedgerHandler) ConvertQuantity(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	actor := auth.ActorFromRequest(c)
	res, err := h.uc.ConvertQuantity(c.UserContext(), actor, req.ItemID, req.QtyEntered, req.UOMEntered)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"itemId":  res.Item.ID,
		"sku":     res.Item.SKU,
		"baseUom": res.Item.BaseUOM,
		"qtyBase": res.QtyBase.String(),
	})
}

func (h *LedgerHandler) ListBalances(c *fiber.Ctx) error {
	actor := auth.ActorFromRequest(c)
	filters := &dto.BalanceFilters{
		ItemID:     c.Query("itemId"),
		LocationID: c.Query("locationId"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("pageSize", 50),
	}

	balances, total, err := h.uc.ListBalances(c.UserContext(), actor, filters)
	if err != nil {
		return h.mapError(c, err)
	}

	items := make([]fiber.Map, len(balances))
	for i, bal := range balances {
		items[i] = fiber.Map{
			"itemId":     bal.ItemID,
			"locationId": bal.LocationID,
			"qtyBase":    bal.QtyBase.String(),
			"updatedAt":  bal.UpdatedAt,
		}
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	actor := auth.ActorFromRequest(c)
	bal, err := h.uc.GetBalance(c.UserContext(), actor, c.Params("itemId"), c.Params("locationId"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"itemId":     bal.ItemID,
		"locationId": bal.LocationID,
		"qtyBase":    bal.QtyBase.String(),
		"updatedAt":  bal.UpdatedAt,
	})
}

func (h *LedgerHandler) ListEvents(c *fiber.Ctx) error {
	actor := auth.ActorFromRequest(c)
	filters := &dto.EventFilters{
		ItemID:     c.Query("itemId"),
		LocationID: c.Query("locationId"),
		EventType:  c.Query("eventType"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("pageSize", 50),
	}

	events, total, err := h.uc.ListEvents(c.UserContext(), actor, filters)
	if err != nil {
		return h.mapError(c, err)
	}

	items := make([]eventResponse, len(events))
	for i := range events {
		items[i] = toEventResponse(&events[i])
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

func (h *LedgerHandler) mapError(c *fiber.Ctx, err error) error {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, ledger.ErrInvalidUOM),
		errors.Is(err, ledger.ErrReasonCodeMismatch),
		errors.Is(err, ledger.ErrNegativeBalancePrevented):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrTenantMismatch), errors.Is(err, ledger.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("inventory request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
