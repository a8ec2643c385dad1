package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/pricing"
	"github.com/iliyamo/flight-reservation/internal/queue"
	"github.com/iliyamo/flight-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/flight-reservation/internal/service"
)

// OrderHandler implements the order ledger: atomic multi-ticket
// purchase debiting the prepaid balance, order listing, and
// cancellation with partial refunds.  Every purchase and every
// cancellation runs in a single database transaction with the user's
// balance row locked first, so concurrent orders against the same
// account serialize.
type OrderHandler struct {
	Cfg       config.Config
	Orders    *repository.OrderRepo
	Tickets   *repository.TicketRepo
	Flights   *repository.FlightRepo
	Airplanes *repository.AirplaneRepo
	Users     *repository.UserRepo
}

func NewOrderHandler(cfg config.Config, o *repository.OrderRepo, t *repository.TicketRepo, f *repository.FlightRepo, a *repository.AirplaneRepo, u *repository.UserRepo) *OrderHandler {
	if o == nil || t == nil || f == nil || a == nil || u == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Cfg: cfg, Orders: o, Tickets: t, Flights: f, Airplanes: a, Users: u}
}

type createOrderReq struct {
	Tickets []booking.SeatRequest `json:"tickets"`
}

type ticketResp struct {
	ID       uint64  `json:"id"`
	FlightID uint64  `json:"flight_id"`
	Row      uint32  `json:"row"`
	Seat     uint32  `json:"seat"`
	Price    float64 `json:"price"`
}

func toTicketResp(t model.Ticket) ticketResp {
	return ticketResp{ID: t.ID, FlightID: t.FlightID, Row: t.Row, Seat: t.Seat, Price: t.Price}
}

type orderResp struct {
	ID         uint64       `json:"id"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	TotalPrice float64      `json:"total_price"`
	Tickets    []ticketResp `json:"tickets"`
}

func toOrderResp(o model.Order, tickets []model.Ticket) orderResp {
	resp := orderResp{
		ID:        o.ID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Tickets:   make([]ticketResp, 0, len(tickets)),
	}
	for _, t := range tickets {
		resp.TotalPrice += t.Price
		resp.Tickets = append(resp.Tickets, toTicketResp(t))
	}
	resp.TotalPrice = pricing.Round2(resp.TotalPrice)
	return resp
}

// Create handles POST /v1/orders.  All requested seats are allocated
// and paid for atomically: the user's balance row is locked, each
// seat is validated against the airplane grid and the current ticket
// table, every ticket captures the price quoted at this instant, and
// the total is debited before commit.  Any failure rolls the whole
// order back.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets is required"})
	}
	for _, t := range req.Tickets {
		if t.FlightID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required on every ticket"})
		}
	}
	if dup := booking.FindDuplicate(req.Tickets); dup != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": dup.Error()})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	balance, err := h.Users.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}

	order := model.Order{UserID: userID, Status: model.OrderStatusPaid}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	tickets := make([]model.Ticket, 0, len(req.Tickets))
	total := 0.0
	for _, r := range req.Tickets {
		listing, err := h.Flights.GetListingTx(ctx, tx, r.FlightID)
		if err != nil {
			if err == repository.ErrFlightNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
		}
		if err := booking.CheckPurchasable(&listing.Flight, now); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		plane, err := h.Airplanes.GetByIDTx(ctx, tx, listing.Flight.AirplaneID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane failed"})
		}
		if err := booking.CheckSeat(&plane, r.Row, r.Seat); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		taken, err := h.Tickets.SeatTakenTx(ctx, tx, r.FlightID, r.Row, r.Seat)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check seat failed"})
		}
		if taken {
			return c.JSON(http.StatusConflict, echo.Map{"error": booking.ErrSeatTaken.Error()})
		}

		price := h.Cfg.Pricing.Quote(pricing.FlightQuote{
			DistanceKM:    listing.DistanceKM,
			DepartureTime: listing.Flight.DepartureTime,
			ArrivalTime:   listing.Flight.ArrivalTime,
			TotalSeats:    listing.TotalSeats,
			BookedSeats:   listing.BookedSeats,
		}, now)

		ticket := model.Ticket{
			Row:      r.Row,
			Seat:     r.Seat,
			FlightID: r.FlightID,
			OrderID:  order.ID,
			Price:    price,
		}
		if err := h.Tickets.CreateTx(ctx, tx, &ticket); err != nil {
			if err == repository.ErrConflict {
				// lost the race to another transaction
				return c.JSON(http.StatusConflict, echo.Map{"error": booking.ErrSeatTaken.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
		}
		tickets = append(tickets, ticket)
		total += price
	}

	total = pricing.Round2(total)
	if balance < total {
		insufficient := &booking.InsufficientFundsError{Balance: balance, Required: total}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": insufficient.Error()})
	}
	newBalance := pricing.Round2(balance - total)
	if err := h.Users.SetBalanceTx(ctx, tx, userID, newBalance); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "debit balance failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	ev := queue.OrderEvent{
		Type:       queue.EventOrderConfirmed,
		OrderID:    order.ID,
		Reference:  uuid.NewString(),
		UserID:     userID,
		TotalPrice: total,
		OccurredAt: now.Format(time.RFC3339),
	}
	for _, t := range tickets {
		ev.Tickets = append(ev.Tickets, queue.EventTicket{
			FlightID: t.FlightID, Row: t.Row, Seat: t.Seat, Price: t.Price,
		})
	}
	_ = queue_publisher.PublishOrderEvent(ctx, ev) // best effort

	resp := toOrderResp(order, tickets)
	return c.JSON(http.StatusCreated, echo.Map{
		"order":   resp,
		"balance": newBalance,
	})
}

// List handles GET /v1/orders and returns the current user's orders
// with their tickets.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	orders, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load orders failed"})
	}
	items := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		tickets, err := h.Tickets.ListByOrder(ctx, o.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
		}
		items = append(items, toOrderResp(o, tickets))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/orders/:id.  Orders of other users surface as
// 404 so order IDs are not probeable.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	o, err := h.Orders.GetForUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}
	tickets, err := h.Tickets.ListByOrder(ctx, o.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	return c.JSON(http.StatusOK, toOrderResp(o, tickets))
}

// Cancel handles POST /v1/orders/:id/cancel.  Orders older than the
// cancellation window are rejected outright.  Within the window,
// only tickets on still-planned flights are refunded; tickets on
// departed or landed flights stay on the order and are reported
// back.  A partial outcome is still a 200.
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := h.Orders.GetForUserTx(ctx, tx, id, userID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}
	if !booking.CancellableAt(order.CreatedAt, now) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "order can no longer be cancelled"})
	}

	tickets, err := h.Tickets.ListByOrderTx(ctx, tx, order.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	if len(tickets) == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no tickets available"})
	}

	// resolve which of the order's flights are still planned
	planned := make(map[uint64]bool)
	for _, t := range tickets {
		if _, ok := planned[t.FlightID]; ok {
			continue
		}
		f, err := h.Flights.GetByIDTx(ctx, tx, t.FlightID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
		}
		planned[t.FlightID] = f.Status(now) == model.FlightStatusPlanned
	}

	refundable, kept, total := booking.RefundSplit(tickets, planned)
	for _, t := range refundable {
		if err := h.Tickets.DeleteTx(ctx, tx, t.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete ticket failed"})
		}
	}

	balance, err := h.Users.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}
	total = pricing.Round2(total)
	newBalance := pricing.Round2(balance + total)
	if total > 0 {
		if err := h.Users.SetBalanceTx(ctx, tx, userID, newBalance); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refund balance failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	_ = queue_publisher.PublishOrderEvent(ctx, queue.OrderEvent{
		Type:           queue.EventOrderCancelled,
		OrderID:        order.ID,
		Reference:      uuid.NewString(),
		UserID:         userID,
		RefundedAmount: total,
		KeptTickets:    len(kept),
		OccurredAt:     now.Format(time.RFC3339),
	})

	notReturnable := make([]ticketResp, 0, len(kept))
	for _, t := range kept {
		notReturnable = append(notReturnable, toTicketResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"not_returnable_tickets": notReturnable,
		"returned_balance":       total,
		"balance":                newBalance,
	})
}
