// README: Pipeline stages, error kinds, and the stage-attributed error type.
package pipeline

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageParseRequest   Stage = "parse_request"
	StageNormalizeNames Stage = "normalize_names"
	StageEncodeNames    Stage = "encode_names"
	StagePredictPrice   Stage = "predict_price"
	StageGeocode        Stage = "geocode"
	StageClusterAndRank Stage = "cluster_and_rank"
	StageRespond        Stage = "respond"
)

// Error kinds. Every failure returned by Run matches exactly one of these with errors.Is.
var (
	ErrMissingParameters        = errors.New("missing parameters")
	ErrInvalidNumericParameter  = errors.New("invalid numeric parameter")
	ErrTransliterationFailure   = errors.New("transliteration failure")
	ErrReferenceDataUnavailable = errors.New("reference data unavailable")
	ErrUnknownCategory          = errors.New("unknown category")
	ErrPredictionFailure        = errors.New("prediction failure")
	ErrGeocodeNotFound          = errors.New("geocode not found")
	ErrDriverSelectionFailure   = errors.New("driver selection failure")
	ErrUnexpectedFailure        = errors.New("unexpected failure")
)

const (
	msgMissingParameters = "Missing required parameters: 'from', 'to', 'weight', 'volume'"
	msgInvalidNumeric    = "Parameters 'weight' and 'volume' must be numbers"
	msgUnknownCategory   = "Invalid city names"
	msgGeocodeNotFound   = "Location not found"
)

// StageError is a failure attributed to one stage. Msg is the client-facing text.
type StageError struct {
	Stage Stage
	Kind  error
	Msg   string
	Err   error
}

func (e *StageError) Error() string { return e.Msg }

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(stage Stage, kind error, msg string, cause error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Msg: msg, Err: cause}
}

// failf builds the "<prefix>: <cause>" message used by stages that surface their cause.
func failf(stage Stage, kind error, prefix string, cause error) *StageError {
	return fail(stage, kind, fmt.Sprintf("%s: %v", prefix, cause), cause)
}

// KindOf returns the error kind of err, or ErrUnexpectedFailure when err did
// not come from the pipeline.
func KindOf(err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrUnexpectedFailure
}

// StageOf returns the stage err is attributed to. Errors that did not come
// from the pipeline are attributed to StageRespond.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageRespond
}
