package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fpx"
)

// Ensure the logging decorators implement their interfaces.
var (
	_ fpx.PhotoFetcher = (*LoggingPhotoFetcher)(nil)
	_ fpx.PhotoFinder  = (*LoggingPhotoFinder)(nil)
)

// LoggingPhotoFetcher wraps a PhotoFetcher with logging.
type LoggingPhotoFetcher struct {
	next   fpx.PhotoFetcher
	logger *slog.Logger
}

// NewLoggingPhotoFetcher creates a new LoggingPhotoFetcher.
func NewLoggingPhotoFetcher(next fpx.PhotoFetcher, logger *slog.Logger) *LoggingPhotoFetcher {
	return &LoggingPhotoFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher and logs the operation.
func (f *LoggingPhotoFetcher) FetchPage(ctx context.Context, feed string, page, pageSize int) (result *fpx.PhotoPage, err error) {
	defer func(begin time.Time) {
		count := 0
		if result != nil {
			count = len(result.Photos)
		}
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		f.logger.Log(ctx, level, "fetch page",
			"feed", feed,
			"page", page,
			"size", pageSize,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, feed, page, pageSize)
}

// InvalidateFeed forwards to the wrapped fetcher when it keeps per-feed state.
func (f *LoggingPhotoFetcher) InvalidateFeed(ctx context.Context, feed string) error {
	inv, ok := f.next.(fpx.FeedInvalidator)
	if !ok {
		return nil
	}
	err := inv.InvalidateFeed(ctx, feed)
	f.logger.Info("invalidate feed", "feed", feed, "err", err)
	return err
}

// LoggingPhotoFinder wraps a PhotoFinder with logging.
type LoggingPhotoFinder struct {
	next   fpx.PhotoFinder
	logger *slog.Logger
}

// NewLoggingPhotoFinder creates a new LoggingPhotoFinder.
func NewLoggingPhotoFinder(next fpx.PhotoFinder, logger *slog.Logger) *LoggingPhotoFinder {
	return &LoggingPhotoFinder{next: next, logger: logger}
}

// FindPhotoByID delegates to the wrapped finder and logs the operation.
func (f *LoggingPhotoFinder) FindPhotoByID(ctx context.Context, id int64) (photo *fpx.Photo, err error) {
	defer func(begin time.Time) {
		f.logger.Info("find photo",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindPhotoByID(ctx, id)
}
