package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/fwojciec/fpx"
)

// Compile-time interface verification.
var _ fpx.PageCache = (*PageCache)(nil)

// PageCache implements fpx.PageCache using SQLite. Pages are stored as the
// JSON of the API response, keyed by feed, page and page size.
type PageCache struct {
	db *DB
}

// NewPageCache creates a new PageCache.
func NewPageCache(db *DB) *PageCache {
	return &PageCache{db: db}
}

// FindPage retrieves a cached page. Returns ENOTFOUND when the page is not cached.
func (c *PageCache) FindPage(ctx context.Context, req fpx.PageRequest) (*fpx.CachedPage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var content, fetchedAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT content, fetched_at
		FROM pages
		WHERE feed = ? AND page = ? AND page_size = ?
	`, req.Feed, req.Page, req.PageSize).Scan(&content, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fpx.Errorf(fpx.ENOTFOUND, "page not cached")
	}
	if err != nil {
		return nil, err
	}

	var result fpx.PhotoPage
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fpx.WrapError(fpx.EINTERNAL, err, "decode cached page %s/%d", req.Feed, req.Page)
	}

	cached := &fpx.CachedPage{
		Feed:     req.Feed,
		Page:     req.Page,
		PageSize: req.PageSize,
		Result:   &result,
	}
	cached.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return cached, nil
}

// SavePage stores a page, replacing any previous copy. The stored content
// is only rewritten when it changed; the fetch time is always refreshed.
func (c *PageCache) SavePage(ctx context.Context, req fpx.PageRequest, result *fpx.PhotoPage) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if result == nil {
		return fpx.Errorf(fpx.EINVALID, "page result required")
	}

	content, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO pages (feed, page, page_size, content, content_hash, photo_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed, page, page_size) DO UPDATE SET
			content = CASE WHEN pages.content_hash = excluded.content_hash
				THEN pages.content ELSE excluded.content END,
			content_hash = excluded.content_hash,
			photo_count = excluded.photo_count,
			fetched_at = excluded.fetched_at
	`, req.Feed, req.Page, req.PageSize, string(content), hashContent(content),
		len(result.Photos), time.Now().UTC().Format(timeFormat))

	return err
}

// DeleteFeed removes every cached page of feed.
func (c *PageCache) DeleteFeed(ctx context.Context, feed string) error {
	if feed == "" {
		return fpx.Errorf(fpx.EINVALID, "feed required")
	}
	_, err := c.db.ExecContext(ctx, "DELETE FROM pages WHERE feed = ?", feed)
	return err
}

// DeleteAll removes every cached page.
func (c *PageCache) DeleteAll(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM pages")
	return err
}

// FeedStats summarizes the cached pages of one feed.
type FeedStats struct {
	Feed      string
	Pages     int
	Photos    int
	FetchedAt time.Time
}

// Stats returns per-feed cache statistics ordered by feed name.
func (c *PageCache) Stats(ctx context.Context) ([]FeedStats, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT feed, COUNT(*), SUM(photo_count), MAX(fetched_at)
		FROM pages
		GROUP BY feed
		ORDER BY feed
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []FeedStats
	for rows.Next() {
		var s FeedStats
		var fetchedAt string
		if err := rows.Scan(&s.Feed, &s.Pages, &s.Photos, &fetchedAt); err != nil {
			return nil, err
		}
		if s.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
