package handler

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/pricing"
	"github.com/iliyamo/flight-reservation/internal/repository"
	"github.com/iliyamo/flight-reservation/internal/utils"
)

// DepositHandler tops up the prepaid balance through the payment
// gateway.  The flow has two legs: the authenticated user opens a
// deposit session and receives a reference, then the gateway calls
// the webhook with the outcome.  Webhook payloads are authenticated
// by an HMAC signature over the raw body; the balance is only
// credited inside a transaction that also records the attempt in the
// transactions ledger.
type DepositHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewDepositHandler(cfg config.Config, u *repository.UserRepo) *DepositHandler {
	if u == nil {
		panic("nil repository passed to NewDepositHandler")
	}
	return &DepositHandler{Cfg: cfg, Users: u}
}

// signatureHeader carries the gateway's HMAC-SHA256 hex digest of the
// webhook body.
const signatureHeader = "X-Payment-Signature"

type depositReq struct {
	Amount float64 `json:"amount"`
}

type webhookPayload struct {
	Reference string  `json:"reference"`
	UserID    uint64  `json:"user_id"`
	Email     string  `json:"email"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"` // SUCCESS | FAILURE
}

// CreateSession handles POST /v1/deposit.  It validates the amount
// and hands out a session reference the gateway will echo back on
// the webhook.
func (h *DepositHandler) CreateSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reference": uuid.NewString(),
		"user_id":   u.ID,
		"email":     u.Email,
		"amount":    pricing.Round2(req.Amount),
		"currency":  "usd",
		"status":    "PENDING",
	})
}

// Webhook handles POST /v1/payments/webhook.  The body is read raw
// so the signature covers exactly the bytes the gateway signed.
// Both outcomes are written to the transactions ledger; only SUCCESS
// credits the balance.
func (h *DepositHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read body failed"})
	}
	sig := strings.TrimSpace(c.Request().Header.Get(signatureHeader))
	if sig == "" || !utils.VerifySignature(h.Cfg.PaymentWebhookSecret, body, sig) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	p.Status = strings.ToUpper(strings.TrimSpace(p.Status))
	if p.UserID == 0 || p.Amount <= 0 || (p.Status != "SUCCESS" && p.Status != "FAILURE") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	tx, err := h.Users.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	balance, err := h.Users.BalanceForUpdateTx(ctx, tx, p.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load balance failed"})
	}

	amount := pricing.Round2(p.Amount)
	if p.Status == "SUCCESS" {
		if err := h.Users.SetBalanceTx(ctx, tx, p.UserID, pricing.Round2(balance+amount)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "credit balance failed"})
		}
	}
	t := model.Transaction{
		UserID: p.UserID,
		Amount: amount,
		Email:  strings.ToLower(strings.TrimSpace(p.Email)),
		Status: p.Status,
	}
	if err := h.Users.CreateTransactionTx(ctx, tx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record transaction failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	c.Logger().Infof("deposit %s for user %d: %s %.2f at %s",
		p.Reference, p.UserID, p.Status, amount, time.Now().UTC().Format(time.RFC3339))
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
