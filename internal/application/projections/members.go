package projections

import (
	"context"
	"fmt"

	memberStore "gymhub/internal/adapters/storage/member"
	domainMember "gymhub/internal/domain/member"
)

// GetMemberListQuery carries paging and status filters.
type GetMemberListQuery struct {
	Status string
	Limit  int
	Offset int
}

// GetMemberListResult carries the page and the overall member count.
type GetMemberListResult struct {
	Members []domainMember.Member
	Total   int
}

// QueryGetMemberList pages through members ordered by name.
// PRE: Limit >= 0, Offset >= 0
// POST: Total counts every member regardless of the status filter
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, store MemberStore) (GetMemberListResult, error) {
	if query.Limit < 0 || query.Offset < 0 {
		return GetMemberListResult{}, fmt.Errorf("limit and offset must not be negative")
	}
	members, err := store.List(ctx, memberStore.ListFilter{Status: query.Status, Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		return GetMemberListResult{}, fmt.Errorf("failed to list members: %w", err)
	}
	total, err := store.Count(ctx)
	if err != nil {
		return GetMemberListResult{}, fmt.Errorf("failed to count members: %w", err)
	}
	return GetMemberListResult{Members: members, Total: total}, nil
}

// QueryTotalMembers returns the number of members.
func QueryTotalMembers(ctx context.Context, store MemberStore) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// QueryAssignedMembers lists the members assigned to a trainer.
func QueryAssignedMembers(ctx context.Context, trainerID string, store MemberStore) ([]domainMember.Member, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("trainer ID cannot be empty")
	}
	members, err := store.ListByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned members: %w", err)
	}
	return members, nil
}

// QueryExportMembersCSV renders every member as id,name,email.
// POST: Fields are quoted where needed
func QueryExportMembersCSV(ctx context.Context, store MemberStore) (string, error) {
	members, err := store.List(ctx, memberStore.ListFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to list members: %w", err)
	}
	return domainMember.ExportCSV(members)
}
