package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/orderdesk/internal/domain"
)

type mockExtractor struct {
	extractFn func(ctx context.Context, emailText string) (domain.CandidateOrder, error)
}

func (m *mockExtractor) Extract(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
	return m.extractFn(ctx, emailText)
}

type mockCatalog struct {
	snapshotFn func(ctx context.Context) (domain.CatalogSnapshot, error)
}

func (m *mockCatalog) Snapshot(ctx context.Context) (domain.CatalogSnapshot, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return domain.NewCatalogSnapshot(nil, nil), nil
}

type mockMessenger struct {
	generateFn func(ctx context.Context, report domain.ValidationReport) (domain.CustomerMessage, error)
}

func (m *mockMessenger) Generate(ctx context.Context, report domain.ValidationReport) (domain.CustomerMessage, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, report)
	}
	return domain.CustomerMessage{Subject: "ok"}, nil
}

type mockSettler struct {
	settleFn func(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome
}

func (m *mockSettler) Settle(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
	if m.settleFn != nil {
		return m.settleFn(ctx, report)
	}
	return domain.SettlementOutcome{Success: true, OrderID: "ORD-2024-001"}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func passValidator(candidate domain.CandidateOrder, catalog domain.CatalogSnapshot) domain.ValidationReport {
	return domain.ValidationReport{
		CustomerInfo:  domain.CustomerInfo{ID: "C001"},
		OverallStatus: domain.StatusSuccess,
	}
}

func newTestPipeline(extractor Extractor, catalog CatalogLoader, messenger Messenger, settler Settler) *Pipeline {
	return New(extractor, catalog, passValidator, messenger, settler, testLogger(), nil)
}

func TestProcessOrder_AllStagesSucceed(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{CustomerID: "C001"}, nil
	}}

	result := newTestPipeline(extractor, &mockCatalog{}, &mockMessenger{}, &mockSettler{}).
		ProcessOrder(context.Background(), "please send 10 brackets")

	assert.True(t, result.Extraction.Ok())
	assert.True(t, result.Validation.Ok())
	assert.True(t, result.Message.Ok())
	assert.True(t, result.Settlement.Ok())
	assert.Equal(t, "ORD-2024-001", result.Settlement.Value.OrderID)
}

func TestProcessOrder_ExtractionFailureStopsRun(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{}, errors.New("api unreachable")
	}}
	settled := false
	settler := &mockSettler{settleFn: func(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
		settled = true
		return domain.SettlementOutcome{}
	}}

	result := newTestPipeline(extractor, &mockCatalog{}, &mockMessenger{}, settler).
		ProcessOrder(context.Background(), "anything")

	assert.True(t, result.Extraction.Attempted)
	assert.False(t, result.Extraction.Ok())
	assert.False(t, result.Validation.Attempted)
	assert.False(t, result.Message.Attempted)
	assert.False(t, result.Settlement.Attempted)
	assert.False(t, settled)
}

func TestProcessOrder_SnapshotFailureStopsBeforeValidation(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{}, nil
	}}
	catalog := &mockCatalog{snapshotFn: func(ctx context.Context) (domain.CatalogSnapshot, error) {
		return domain.CatalogSnapshot{}, errors.New("db down")
	}}

	result := newTestPipeline(extractor, catalog, &mockMessenger{}, &mockSettler{}).
		ProcessOrder(context.Background(), "anything")

	assert.True(t, result.Extraction.Ok())
	assert.True(t, result.Validation.Attempted)
	assert.False(t, result.Validation.Ok())
	assert.False(t, result.Settlement.Attempted)
}

func TestProcessOrder_MessageFailureDoesNotBlockSettlement(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{}, nil
	}}
	messenger := &mockMessenger{generateFn: func(ctx context.Context, report domain.ValidationReport) (domain.CustomerMessage, error) {
		return domain.CustomerMessage{}, errors.New("template broken")
	}}
	settled := false
	settler := &mockSettler{settleFn: func(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
		settled = true
		return domain.SettlementOutcome{Success: true, OrderID: "ORD-2024-002"}
	}}

	result := newTestPipeline(extractor, &mockCatalog{}, messenger, settler).
		ProcessOrder(context.Background(), "anything")

	assert.False(t, result.Message.Ok())
	assert.True(t, settled)
	assert.True(t, result.Settlement.Ok())
}

func TestProcessOrder_SettlementFailureIsAValue(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{}, nil
	}}
	settler := &mockSettler{settleFn: func(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome {
		return domain.SettlementOutcome{Success: false, Details: "Insufficient stock for product P001 during update."}
	}}

	result := newTestPipeline(extractor, &mockCatalog{}, &mockMessenger{}, settler).
		ProcessOrder(context.Background(), "anything")

	// An unsuccessful settlement is still a stage value, not a stage error.
	assert.True(t, result.Settlement.Ok())
	assert.False(t, result.Settlement.Value.Success)
}

func TestResult_JSONShape(t *testing.T) {
	extractor := &mockExtractor{extractFn: func(ctx context.Context, emailText string) (domain.CandidateOrder, error) {
		return domain.CandidateOrder{}, errors.New("api unreachable")
	}}

	result := newTestPipeline(extractor, &mockCatalog{}, &mockMessenger{}, &mockSettler{}).
		ProcessOrder(context.Background(), "anything")

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.JSONEq(t, `{"error":"api unreachable"}`, string(decoded["extracted_info"]))
	assert.Equal(t, "null", string(decoded["validation_result"]))
	assert.Equal(t, "null", string(decoded["customer_message"]))
	assert.Equal(t, "null", string(decoded["order_update_result"]))
}
