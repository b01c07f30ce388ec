package ensemble

import "errors"

var (
	// ErrModelUnavailable means no trained snapshot has been published yet.
	// Callers recover by switching to the rule-based fallback predictor.
	ErrModelUnavailable = errors.New("ensemble: no trained model snapshot available")

	// ErrFeatureMismatch means the supplied vector does not match the
	// feature ordering the scaler and models were fitted against. This is a
	// programming error, fatal to the call.
	ErrFeatureMismatch = errors.New("ensemble: feature vector does not match fitted feature set")
)
