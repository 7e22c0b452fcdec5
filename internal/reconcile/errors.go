package reconcile

import "errors"

var (
	// ErrInvalidParams marks tuning parameters rejected by Params.Validate.
	ErrInvalidParams = errors.New("invalid reconcile parameters")
	// ErrNoAnchors marks a run in which rank fusion accepted no pair. Gap
	// filling and spreading need at least one anchor, so the run stops.
	ErrNoAnchors = errors.New("no anchors found")
	// ErrCoverage marks an assembled sequence that does not cover every text
	// cue exactly once. It indicates a defect in the engine, not bad input.
	ErrCoverage = errors.New("mapping coverage violated")
)
