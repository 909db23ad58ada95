// Package pipeline sequences the order-intake stages: extraction,
// validation, messaging, settlement. Each stage's result or error is
// captured independently so a failure in one stage never corrupts what an
// earlier stage produced, and callers can inspect exactly which stage
// yielded what.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// Extractor turns free-form email text into a best-effort candidate order.
// Implementations may return empty or partially filled orders; only
// transport-level problems are errors.
type Extractor interface {
	Extract(ctx context.Context, emailText string) (domain.CandidateOrder, error)
}

// CatalogLoader provides a fresh catalog snapshot per validation pass.
type CatalogLoader interface {
	Snapshot(ctx context.Context) (domain.CatalogSnapshot, error)
}

// Messenger generates the customer-facing reply from a validation report.
type Messenger interface {
	Generate(ctx context.Context, report domain.ValidationReport) (domain.CustomerMessage, error)
}

// Settler durably applies a validation report. The outcome is always
// structured; infrastructure failures surface in its detail string.
type Settler interface {
	Settle(ctx context.Context, report domain.ValidationReport) domain.SettlementOutcome
}

// StageResult holds either a stage's value or the error that stopped it.
// Attempted distinguishes a stage that ran from one that was skipped
// because an earlier stage failed.
type StageResult[T any] struct {
	Value     T
	Err       error
	Attempted bool
}

// Ok reports whether the stage ran and produced a value.
func (r StageResult[T]) Ok() bool {
	return r.Attempted && r.Err == nil
}

// MarshalJSON renders the value, an error object, or null for skipped
// stages, mirroring the composite shape consumers replay against.
func (r StageResult[T]) MarshalJSON() ([]byte, error) {
	if !r.Attempted {
		return []byte("null"), nil
	}
	if r.Err != nil {
		return json.Marshal(map[string]string{"error": r.Err.Error()})
	}
	return json.Marshal(r.Value)
}

func stageOK[T any](v T) StageResult[T] {
	return StageResult[T]{Value: v, Attempted: true}
}

func stageErr[T any](err error) StageResult[T] {
	return StageResult[T]{Err: err, Attempted: true}
}

// Result is the composite outcome of one pipeline run, keyed by stage.
type Result struct {
	Extraction StageResult[domain.CandidateOrder]    `json:"extracted_info"`
	Validation StageResult[domain.ValidationReport]  `json:"validation_result"`
	Message    StageResult[domain.CustomerMessage]   `json:"customer_message"`
	Settlement StageResult[domain.SettlementOutcome] `json:"order_update_result"`
}

// Validator validates a candidate order against a catalog snapshot.
// It matches validator.Validate and exists so tests can substitute one.
type Validator func(domain.CandidateOrder, domain.CatalogSnapshot) domain.ValidationReport

// Pipeline orchestrates one order-processing run per call. Stages run
// sequentially; there is no concurrency within a run.
type Pipeline struct {
	extractor Extractor
	catalog   CatalogLoader
	validate  Validator
	messenger Messenger
	settler   Settler
	logger    *slog.Logger
	metrics   *Metrics
}

// New creates a pipeline. metrics may be nil to disable instrumentation.
func New(extractor Extractor, catalog CatalogLoader, validate Validator, messenger Messenger, settler Settler, logger *slog.Logger, metrics *Metrics) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		catalog:   catalog,
		validate:  validate,
		messenger: messenger,
		settler:   settler,
		logger:    logger,
		metrics:   metrics,
	}
}

// ProcessOrder runs Extract -> Validate -> Message -> Settle over the raw
// email text. Extraction or validation failure stops the run; a message
// failure is recorded but does not block settlement; a settlement failure
// is terminal but does not retroactively undo messaging.
func (p *Pipeline) ProcessOrder(ctx context.Context, emailText string) Result {
	var result Result

	candidate, err := p.extractor.Extract(ctx, emailText)
	if err != nil {
		p.logger.Error("extraction failed", "error", err)
		p.stageFailed("extract")
		result.Extraction = stageErr[domain.CandidateOrder](err)
		return result
	}
	result.Extraction = stageOK(candidate)

	snapshot, err := p.catalog.Snapshot(ctx)
	if err != nil {
		p.logger.Error("catalog snapshot failed", "error", err)
		p.stageFailed("validate")
		result.Validation = stageErr[domain.ValidationReport](err)
		return result
	}
	report := p.validate(candidate, snapshot)
	result.Validation = stageOK(report)
	p.logger.Info("order validated",
		"status", report.OverallStatus,
		"successful", report.SuccessfulCount,
		"errors", report.ErrorCount,
	)

	msg, err := p.messenger.Generate(ctx, report)
	if err != nil {
		// Messaging is best-effort: record and continue to settlement.
		p.logger.Error("message generation failed", "error", err)
		p.stageFailed("message")
		result.Message = stageErr[domain.CustomerMessage](err)
	} else {
		result.Message = stageOK(msg)
	}

	outcome := p.settler.Settle(ctx, report)
	result.Settlement = stageOK(outcome)
	if !outcome.Success {
		p.stageFailed("settle")
	}
	if p.metrics != nil {
		p.metrics.OrderProcessed(string(report.OverallStatus))
	}
	p.logger.Info("order settled",
		"order_id", outcome.OrderID,
		"success", outcome.Success,
	)
	return result
}

func (p *Pipeline) stageFailed(stage string) {
	if p.metrics != nil {
		p.metrics.StageFailed(stage)
	}
}
