package types

import (
	"errors"
	"fmt"
)

// Kinds of retrieval failure. Each one is an expected outcome of a query.
var (
	ErrNoStation      = errors.New("no station specified")
	ErrUnknownStation = errors.New("unknown station")
	ErrNoDataFile     = errors.New("no data file")
	ErrBadTimestamp   = errors.New("bad timestamp")
	ErrEmptyFile      = errors.New("empty data file")
)

// InternalErrorMessage replaces unclassified failures wherever an error leaves
// the process; their causes carry filesystem paths.
const InternalErrorMessage = "failed to read station data"

// RetrievalError classifies a failed retrieval. Error returns the message
// shown to API clients; errors.Is matches the Kind and the Cause.
type RetrievalError struct {
	Kind      error
	Token     string
	StationID string
	File      string
	Cause     error
}

func (e *RetrievalError) Error() string {
	switch e.Kind {
	case ErrNoStation:
		return "No station specified"
	case ErrUnknownStation:
		return fmt.Sprintf("Unknown station: %s", e.Token)
	case ErrNoDataFile:
		return fmt.Sprintf("No data files found for station: %s", e.StationID)
	case ErrBadTimestamp:
		return "Failed to extract timestamp from file name"
	case ErrEmptyFile:
		return fmt.Sprintf("No data available in the latest file for station: %s", e.StationID)
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "retrieval failed"
}

func (e *RetrievalError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// PublicMessage returns the text clients see for err: the message of a
// classified RetrievalError, InternalErrorMessage for anything else.
func PublicMessage(err error) string {
	var re *RetrievalError
	if errors.As(err, &re) && re.Kind != nil {
		return re.Error()
	}
	return InternalErrorMessage
}
