package usecase

import "github.com/user/deals-scraper/internal/entity"

// ProgressReporter receives progress updates. Updates flow one way; the
// pipeline never reads anything back.
type ProgressReporter interface {
	Report(p entity.Progress)
}

// ProgressFunc adapts a plain function to ProgressReporter.
type ProgressFunc func(p entity.Progress)

func (f ProgressFunc) Report(p entity.Progress) { f(p) }

type discardProgress struct{}

func (discardProgress) Report(entity.Progress) {}

func reporterOrDiscard(r ProgressReporter) ProgressReporter {
	if r == nil {
		return discardProgress{}
	}
	return r
}

// ChannelReporter publishes progress on a channel. Updates are dropped
// rather than blocking the pipeline when the subscriber falls behind.
type ChannelReporter chan<- entity.Progress

func (c ChannelReporter) Report(p entity.Progress) {
	select {
	case c <- p:
	default:
	}
}
