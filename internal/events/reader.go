package events

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// Reader provides read access to the event tables for the analytics API.
type Reader struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewReader opens a ClickHouse connection for read queries.
func NewReader(dsn string, logger *zap.Logger) (*Reader, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}
	if opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}

	return &Reader{conn: conn, logger: logger}, nil
}

// Close closes the ClickHouse connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// EventRow is a single stored interaction event.
type EventRow struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentEvents returns the newest events of one type, newest first.
func (r *Reader) RecentEvents(ctx context.Context, eventType string, limit int) ([]EventRow, error) {
	query := fmt.Sprintf(
		"SELECT id, event_type, payload, created_at FROM %s "+
			"ORDER BY created_at DESC LIMIT @limit",
		TableFor(eventType),
	)

	rows, err := r.conn.Query(ctx, query, clickhouse.Named("limit", uint32(limit)))
	if err != nil {
		return nil, fmt.Errorf("RecentEvents query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []EventRow{}
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("RecentEvents scan: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// SummaryStats holds aggregate counts over the requested range.
type SummaryStats struct {
	Searches int `json:"searches"`
	Clicks   int `json:"clicks"`
}

// TimeSeriesBucket holds an hourly count for one event type.
type TimeSeriesBucket struct {
	Hour  string `json:"hour"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// AnalyticsResult holds the interaction aggregations.
type AnalyticsResult struct {
	Summary        SummaryStats       `json:"summary"`
	EventsOverTime []TimeSeriesBucket `json:"events_over_time"`
}

// GetAnalytics returns aggregated interaction counts over the given number of days.
func (r *Reader) GetAnalytics(ctx context.Context, days int) (*AnalyticsResult, error) {
	rangeStart := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	result := &AnalyticsResult{EventsOverTime: []TimeSeriesBucket{}}

	for _, eventType := range []string{TypeSearch, TypeClick} {
		table := TableFor(eventType)

		var total uint64
		err := r.conn.QueryRow(ctx,
			fmt.Sprintf("SELECT count() FROM %s WHERE created_at >= @range_start", table),
			clickhouse.Named("range_start", rangeStart),
		).Scan(&total)
		if err != nil {
			return nil, fmt.Errorf("GetAnalytics count %s: %w", table, err)
		}
		if eventType == TypeSearch {
			result.Summary.Searches = int(total)
		} else {
			result.Summary.Clicks = int(total)
		}

		rows, err := r.conn.Query(ctx,
			fmt.Sprintf(
				"SELECT toStartOfHour(created_at) as hour, count() as count "+
					"FROM %s WHERE created_at >= @range_start "+
					"GROUP BY hour ORDER BY hour",
				table,
			),
			clickhouse.Named("range_start", rangeStart),
		)
		if err != nil {
			return nil, fmt.Errorf("GetAnalytics buckets %s: %w", table, err)
		}
		for rows.Next() {
			var hour time.Time
			var count uint64
			if err := rows.Scan(&hour, &count); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("GetAnalytics buckets %s scan: %w", table, err)
			}
			result.EventsOverTime = append(result.EventsOverTime, TimeSeriesBucket{
				Hour:  hour.Format(time.RFC3339),
				Type:  eventType,
				Count: int(count),
			})
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("GetAnalytics buckets %s: %w", table, err)
		}
	}

	return result, nil
}
