package projections

import (
	"context"
	"errors"
	"fmt"

	domainProgress "gymhub/internal/domain/progress"
)

// Open bounds used when a progress query has no date range.
const (
	firstDate = "0001-01-01"
	lastDate  = "9999-12-31"
)

// ProgressLogsQuery carries an optional inclusive date range.
type ProgressLogsQuery struct {
	MemberID  string
	StartDate string
	EndDate   string
}

// QueryProgressLogs lists a member's measurements sorted ascending by date.
// POST: Empty bounds are open
func QueryProgressLogs(ctx context.Context, query ProgressLogsQuery, store ProgressStore) ([]domainProgress.Log, error) {
	if query.MemberID == "" {
		return nil, domainProgress.ErrEmptyMemberID
	}
	start, end := query.StartDate, query.EndDate
	if start == "" {
		start = firstDate
	}
	if end == "" {
		end = lastDate
	}
	logs, err := store.ListByMemberIDAndDateRange(ctx, query.MemberID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress logs: %w", err)
	}
	domainProgress.SortByDate(logs)
	return logs, nil
}

// QueryMemberProgressReports lists every measurement of a member for their trainer.
func QueryMemberProgressReports(ctx context.Context, memberID string, store ProgressStore) ([]domainProgress.Log, error) {
	return QueryProgressLogs(ctx, ProgressLogsQuery{MemberID: memberID}, store)
}

// ProgressOverview carries a member's history with its trends.
// Trends is nil when fewer than two measurements exist.
type ProgressOverview struct {
	Logs   []domainProgress.Log
	Trends *domainProgress.Trends
}

// QueryProgressOverview combines QueryProgressLogs with CalculateTrends.
func QueryProgressOverview(ctx context.Context, query ProgressLogsQuery, store ProgressStore) (ProgressOverview, error) {
	logs, err := QueryProgressLogs(ctx, query, store)
	if err != nil {
		return ProgressOverview{}, err
	}
	overview := ProgressOverview{Logs: logs}
	trends, err := domainProgress.CalculateTrends(logs)
	switch {
	case errors.Is(err, domainProgress.ErrNotEnoughData):
	case err != nil:
		return ProgressOverview{}, err
	default:
		overview.Trends = &trends
	}
	return overview, nil
}

// QueryExportProgressCSV renders a member's measurements as CSV.
func QueryExportProgressCSV(ctx context.Context, query ProgressLogsQuery, store ProgressStore) (string, error) {
	logs, err := QueryProgressLogs(ctx, query, store)
	if err != nil {
		return "", err
	}
	return domainProgress.ExportCSV(logs)
}
