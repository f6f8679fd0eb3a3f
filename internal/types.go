package internal

import "fmt"

type SourceKind string

const (
	SourceText  SourceKind = "text"
	SourceTable SourceKind = "table"
)

// FieldValue is one extracted datum. Code is a short order-code token
// discovered adjacent to the value in a table, empty when none was found.
type FieldValue struct {
	Code   string
	Value  string
	Source SourceKind
}

// FieldRecord maps a schema field name to its canonical serialization:
// "N/A" when nothing was found, else "{Code:Value|...}" or a plain literal.
type FieldRecord map[string]string

type ProductType string

const (
	TypeLEDIndicator       ProductType = "led_indicator"
	TypePaddleJoystick     ProductType = "paddle_joystick"
	TypeThumbstickJoystick ProductType = "thumbstick_joystick"
	TypeFingertipJoystick  ProductType = "fingertip_joystick"
	TypeTerminalBlock      ProductType = "terminal_block"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type ConfidenceEntry struct {
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	Source     string     `json:"source,omitempty"`
	Page       *int       `json:"page,omitempty"`
}

// DocumentResult is the output of one heuristic extraction pass over a
// single document. Fields always contains every column of the active
// product-type schema.
type DocumentResult struct {
	Filename        string
	Series          string
	ProductType     ProductType
	Fields          FieldRecord
	ModelCodes      []string
	Validation      map[string]ConfidenceEntry
	ConfidenceScore int
	ConfidenceLevel Confidence
}

// CandidateRecord is one externally supplied (AI-extracted) product guess,
// normalized to canonical column names with empty/null sentinels dropped.
type CandidateRecord struct {
	ModelCode string
	Fields    map[string]string
}

// Product is the unit of output: one row per orderable part number. Field
// values are nil when neither the heuristic pass nor a candidate produced
// anything.
type Product struct {
	ModelCode string
	Fields    map[string]*string
}

// MergedColumns is the fixed column order of the merged multi-product
// output.
var MergedColumns = []string{
	"SERIES", "MODEL_CODE", "MOUNTING HOLE", "BEZEL STYLE", "TERMINALS",
	"BEZEL FINISH", "TYPE OF ILLUMINATION", "LED COLOR", "VOLTAGE", "SEALING",
}

// DocumentError wraps a document-level failure (unreadable or corrupt
// input). Extraction still yields a degraded all-defaults result; the error
// exists for logging by the caller.
type DocumentError struct {
	Filename string
	Cause    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Filename, e.Cause)
}

func (e *DocumentError) Unwrap() error { return e.Cause }

type DocumentRow struct {
	ID              int
	Filename        string
	Series          string
	ProductType     string
	Status          string
	ConfidenceScore int
	ConfidenceLevel string
	CreatedAt       string
}
