package tui

import "errors"

// ErrMissingStreamer is returned when the classification streamer is not provided.
var ErrMissingStreamer = errors.New("tui: classification streamer is required")

// ErrMissingReview is returned when the review service is not provided.
var ErrMissingReview = errors.New("tui: review service is required")

// ErrMissingSession is returned when the batch has no session ID.
var ErrMissingSession = errors.New("tui: session id is required")

// ErrNothingSelected is shown when approve is pressed with an empty selection.
var ErrNothingSelected = errors.New("no documents selected")
