package service

import "errors"

var (
	// ErrNoRecognizer is returned by image operations when no recognizer is wired.
	ErrNoRecognizer = errors.New("no card recognizer configured")
	// ErrNoResolver is returned by Start when the resolver is missing.
	ErrNoResolver = errors.New("no card resolver configured")
	// ErrNoAggregator is returned by Start when the aggregator is missing.
	ErrNoAggregator = errors.New("no price aggregator configured")
)
