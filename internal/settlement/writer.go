// Package settlement durably applies a validation report: one all-or-nothing
// transaction that re-checks stock under row locks, decrements inventory,
// and writes the order record with its terminal status.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
)

const (
	orderIDPrefix = "ORD"

	// deliveryLeadTime is the promised delivery window for confirmed orders.
	deliveryLeadTime = 3 * 24 * time.Hour

	// maxAttempts bounds retries on serialization failures and duplicate
	// order ids. The id scan and the insert share one serializable
	// transaction, so concurrent settlements conflict instead of both
	// claiming the same sequence number.
	maxAttempts = 3
)

// retryMarker tags outcome details produced by conflict errors (SQLSTATE
// 40001 and 23505) that are safe to retry from the top of the transaction.
const retryMarker = "[retryable]"

// Writer settles validation reports against the live store.
type Writer struct {
	store  repository.TxStarter
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a settlement writer.
func NewWriter(store repository.TxStarter, logger *slog.Logger) *Writer {
	return &Writer{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Settle persists the report's decision. It always returns a structured
// outcome: infrastructure failures become a failure outcome with a detail
// string, never a raised error. Success is true only for confirmed orders.
//
// The stock figures in the report are advisory; this transaction re-reads
// stock under FOR UPDATE and is the authoritative check.
func (w *Writer) Settle(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
	var outcome domain.SettlementOutcome
	for attempt := 1; ; attempt++ {
		outcome = w.settleOnce(ctx, report)
		if attempt >= maxAttempts || !strings.Contains(outcome.Details, retryMarker) {
			break
		}
		w.logger.Warn("settlement conflict, retrying",
			"attempt", attempt,
			"details", outcome.Details,
		)
	}
	return outcome
}

func (w *Writer) settleOnce(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
	tx, err := w.store.Begin(ctx)
	if err != nil {
		return failure("", fmt.Sprintf("Database connection failed: %v", err))
	}
	// Rollback after Commit is a no-op; deferring it guarantees the
	// connection is released on every exit path.
	defer tx.Rollback(ctx)

	var outcome domain.SettlementOutcome
	var commit bool
	if isConfirmable(report.OverallStatus) {
		outcome, commit = w.settleConfirmed(ctx, tx, report)
	} else {
		outcome, commit = w.settleRejected(ctx, tx, report)
	}

	if commit {
		if err := tx.Commit(ctx); err != nil {
			return w.transactionFailure(outcome.OrderID, err)
		}
	}
	return outcome
}

// isConfirmable treats the status case-insensitively and accepts the legacy
// "confirmed" value alongside "success".
func isConfirmable(status domain.ReportStatus) bool {
	return strings.EqualFold(string(status), "success") ||
		strings.EqualFold(string(status), "confirmed")
}

// settleConfirmed handles the success path: authoritative stock re-check
// under row locks, inventory decrements, the order row, and one line-item
// row per successful item with name and price snapshotted from the catalog.
func (w *Writer) settleConfirmed(ctx context.Context, tx repository.Tx, report domain.ValidationReport) (domain.SettlementOutcome, bool) {
	var actions []string

	for _, item := range report.SuccessfulItems {
		stock, err := tx.LockProductStock(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return failure("", fmt.Sprintf("Product %s not found.", item.ProductID)), false
			}
			return w.transactionFailure("", err), false
		}
		if item.Quantity > stock {
			return failure("", fmt.Sprintf("Insufficient stock for product %s during update.", item.ProductID)), false
		}
		if err := tx.DecrementProductStock(ctx, item.ProductID, item.Quantity); err != nil {
			return w.transactionFailure("", err), false
		}
		actions = append(actions, fmt.Sprintf("Updated stock for %s (-%d)", item.ProductID, item.Quantity))
	}

	if report.CustomerInfo.ID == "" {
		return failure("", "Customer ID is missing in validation result. Cannot create order record."), false
	}

	orderID, err := w.generateOrderID(ctx, tx)
	if err != nil {
		return w.transactionFailure("", err), false
	}

	now := w.now()
	if err := tx.InsertOrder(ctx, repository.InsertOrderParams{
		OrderID:         orderID,
		CustomerID:      report.CustomerInfo.ID,
		CustomerName:    report.CustomerInfo.Name,
		CustomerAddress: report.CustomerInfo.Address,
		Status:          domain.OrderStatusConfirmed,
		PlacedAt:        now,
		DeliveryDate:    now.Add(deliveryLeadTime),
	}); err != nil {
		return w.transactionFailure(orderID, err), false
	}

	for _, item := range report.SuccessfulItems {
		name, price, err := tx.ProductPricing(ctx, item.ProductID)
		if err != nil {
			return w.transactionFailure(orderID, err), false
		}
		if err := tx.InsertOrderItem(ctx, repository.InsertOrderItemParams{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			LineTotal:   price.Mul(decimal.NewFromInt32(item.Quantity)),
			IsAvailable: true,
		}); err != nil {
			return w.transactionFailure(orderID, err), false
		}
		actions = append(actions, fmt.Sprintf("Created order item for %s (qty %d)", item.ProductID, item.Quantity))
	}

	return domain.SettlementOutcome{
		Success: true,
		OrderID: orderID,
		Details: strings.Join(actions, "; "),
	}, true
}

// settleRejected records held and failed orders: an order row with no line
// items and no stock changes. The outcome stays a failure even though the
// row insert succeeds, because the order itself was not fulfilled. Without
// a resolved customer there is nothing to attach the record to, so the
// transaction aborts with no writes at all.
func (w *Writer) settleRejected(ctx context.Context, tx repository.Tx, report domain.ValidationReport) (domain.SettlementOutcome, bool) {
	if report.CustomerInfo.ID == "" {
		return failure("", "Customer ID is missing in validation result. Cannot create order record."), false
	}

	status := domain.OrderStatusFailed
	switch report.OverallStatus {
	case domain.StatusPartialSuccess, domain.StatusUnknownCustomer:
		status = domain.OrderStatusHold
	}

	orderID, err := w.generateOrderID(ctx, tx)
	if err != nil {
		return w.transactionFailure("", err), false
	}

	now := w.now()
	if err := tx.InsertOrder(ctx, repository.InsertOrderParams{
		OrderID:         orderID,
		CustomerID:      report.CustomerInfo.ID,
		CustomerName:    report.CustomerInfo.Name,
		CustomerAddress: report.CustomerInfo.Address,
		Status:          status,
		PlacedAt:        now,
		DeliveryDate:    now.Add(deliveryLeadTime),
	}); err != nil {
		return w.transactionFailure(orderID, err), false
	}

	return failure(orderID, fmt.Sprintf("Order created with status %s", status)), true
}

// generateOrderID produces the next ORD-<year>-<seq> id for the current
// year. The scan and the subsequent insert run inside the same serializable
// transaction, so two concurrent settlements cannot both claim a sequence
// number. Malformed legacy ids fall back to sequence 1 instead of failing.
func (w *Writer) generateOrderID(ctx context.Context, tx repository.Tx) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", orderIDPrefix, w.now().Year())
	latest, err := tx.LatestOrderID(ctx, prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		parts := strings.Split(latest, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// transactionFailure converts an infrastructure error into a failure
// outcome, tagging conflict errors so Settle can retry them.
func (w *Writer) transactionFailure(orderID string, err error) domain.SettlementOutcome {
	detail := fmt.Sprintf("Error: %v", err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 23505 unique_violation
		if pgErr.Code == "40001" || pgErr.Code == "23505" {
			detail = retryMarker + " " + detail
		}
	}
	w.logger.Error("settlement transaction failed", "order_id", orderID, "error", err)
	return failure(orderID, detail)
}

func failure(orderID, details string) domain.SettlementOutcome {
	return domain.SettlementOutcome{
		Success: false,
		OrderID: orderID,
		Details: details,
	}
}
