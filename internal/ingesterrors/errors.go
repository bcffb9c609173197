// Package ingesterrors defines the typed errors the ingestion engine
// raises across fetching, extraction, and loading. They follow the same
// shape as the teacher's providers.RateLimitError: a struct implementing
// error, plus an As-style helper for callers that need the details.
package ingesterrors

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError captures a rate-limited response from an upstream source,
// whether synthesized locally by the token bucket or reported by the
// vendor via a 429 status.
type RateLimitError struct {
	Source     string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("%s: rate limited", e.Source)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError unwraps err into a *RateLimitError if present anywhere
// in its chain.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// SchemaDriftError marks a vendor payload value the extractor/preprocessor
// layer didn't recognize (an unmapped enum, an unexpected event message
// type). It is not necessarily fatal — callers typically log it, record
// the schema_drift metric, and fall back to a default classification.
type SchemaDriftError struct {
	Vendor string
	Field  string
	Value  string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("%s: unrecognized value %q for field %q", e.Vendor, e.Value, e.Field)
}

// AsSchemaDriftError unwraps err into a *SchemaDriftError if present.
func AsSchemaDriftError(err error) (*SchemaDriftError, bool) {
	var sdErr *SchemaDriftError
	if errors.As(err, &sdErr) {
		return sdErr, true
	}
	return nil, false
}

// DataQualityError marks a row that parsed successfully but fails a
// validation invariant (PBP monotonicity, FK validity, uniqueness) and so
// cannot be loaded as-is.
type DataQualityError struct {
	Check  string
	GameID string
	Issues []string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("data quality check %q failed for game %s: %v", e.Check, e.GameID, e.Issues)
}

// AsDataQualityError unwraps err into a *DataQualityError if present.
func AsDataQualityError(err error) (*DataQualityError, bool) {
	var dqErr *DataQualityError
	if errors.As(err, &dqErr) {
		return dqErr, true
	}
	return nil, false
}

// DomainInvariantError marks a violation of a domain-level invariant that
// is always a bug or a genuinely new value the system doesn't model yet
// (an unresolvable team tricode, a clock value outside [0, period length]).
type DomainInvariantError struct {
	Invariant string
	Detail    string
	Available []string
}

func (e *DomainInvariantError) Error() string {
	if len(e.Available) > 0 {
		return fmt.Sprintf("invariant %q violated: %s (available: %v)", e.Invariant, e.Detail, e.Available)
	}
	return fmt.Sprintf("invariant %q violated: %s", e.Invariant, e.Detail)
}

// AsDomainInvariantError unwraps err into a *DomainInvariantError if present.
func AsDomainInvariantError(err error) (*DomainInvariantError, bool) {
	var diErr *DomainInvariantError
	if errors.As(err, &diErr) {
		return diErr, true
	}
	return nil, false
}

// ErrUnsupported marks a source client asked to perform an operation it
// doesn't implement (e.g. Basketball-Reference has no shots endpoint).
type ErrUnsupported struct {
	Op     string
	Source string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("%s: operation %q not supported", e.Source, e.Op)
}
