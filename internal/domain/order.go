package domain

// ReportStatus is the overall outcome of validating a candidate order.
type ReportStatus string

const (
	StatusSuccess         ReportStatus = "success"
	StatusPartialSuccess  ReportStatus = "partial_success"
	StatusFailure         ReportStatus = "failure"
	StatusUnknownCustomer ReportStatus = "unknown_customer"
)

// Persisted order statuses. Hold marks a recoverable, human-actionable
// rejection (unknown customer or a partially failed item set).
const (
	OrderStatusConfirmed = "Confirmed"
	OrderStatusHold      = "Hold"
	OrderStatusFailed    = "Failed"
)

// LineItem is one product reference plus quantity within a candidate order.
// Reference may be a catalog key or free text copied from the email.
type LineItem struct {
	ProductRef  string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
}

// CandidateOrder is the best-effort output of extraction. Any field may be
// empty: extraction never guarantees a complete order, and the validator
// must handle missing customer fields and zero line items without failing.
type CandidateOrder struct {
	CustomerID    string     `json:"customer_id,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	LineItems     []LineItem `json:"products"`
}

// CustomerInfo identifies the resolved customer in a validation report.
// ID is empty iff the customer could not be resolved.
type CustomerInfo struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// ResolvedItem is a line item that passed every validation check.
// ProductID is the catalog key actually matched, which may differ from the
// reference the customer supplied; ProductName is the catalog name.
type ResolvedItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
}

// ErrorItem records one failed line item, or the failed customer lookup
// (reference "*"). Expected business outcomes, never raised as errors.
type ErrorItem struct {
	ProductRef string `json:"product_id"`
	Message    string `json:"error"`
}

// ValidationReport is the validator's structured verdict on one candidate
// order. It is produced once and then shared read-only by messaging and
// settlement; nothing mutates it after creation.
//
// Invariants: SuccessfulCount == len(SuccessfulItems),
// ErrorCount == len(ErrorItems), TotalItems == len(candidate.LineItems).
type ValidationReport struct {
	CustomerInfo    CustomerInfo   `json:"customer_info"`
	SuccessfulItems []ResolvedItem `json:"successful_items"`
	ErrorItems      []ErrorItem    `json:"error_items"`
	Suggestions     []string       `json:"suggestions,omitempty"`
	OverallStatus   ReportStatus   `json:"overall_status"`
	TotalItems      int            `json:"total_items"`
	SuccessfulCount int            `json:"successful_count"`
	ErrorCount      int            `json:"error_count"`
}

// SettlementOutcome reports what settlement did with a validation report.
// OrderID may be set even when Success is false: held and failed orders
// still get a durable order record when the customer is known.
type SettlementOutcome struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Details string `json:"details,omitempty"`
}

// CustomerMessage is the customer-facing reply generated from a validation
// report. It is a pure function of the report and has no effect on order
// state.
type CustomerMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Status  string `json:"status"`
}
