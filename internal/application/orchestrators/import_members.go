package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"gymhub/internal/adapters/eventlog"
	domainEvent "gymhub/internal/domain/eventlog"
)

// ErrImportHeader is returned when the CSV lacks a required column.
var ErrImportHeader = errors.New("CSV must have name and email columns")

// ImportMembersInput carries the CSV stream.
// PRE: Reader has a header row with at least name and email; phone and trainer_id are optional.
type ImportMembersInput struct {
	Reader  io.Reader
	ActorID string
}

// ImportMembersRowError describes a row that could not be parsed.
type ImportMembersRowError struct {
	Row     int
	Message string
}

// ImportMembersResult holds per-row outcomes of an import.
// Results are keyed by email and cover every well-formed row.
type ImportMembersResult struct {
	Total     int
	Created   int
	RowErrors []ImportMembersRowError
	Results   []ItemResult
}

// ImportMembersDeps holds dependencies for BulkImportMembers.
type ImportMembersDeps struct {
	Members     MemberStore
	Concurrency int
	GenerateID  func() string
	Now         func() time.Time
	Events      eventlog.Logger
}

// ExecuteBulkImportMembers parses a member CSV and adds each row as a new member.
// Rows are added concurrently; a duplicate or invalid row fails alone.
// POST: Created + failed results + row errors == Total
// INVARIANT: existing members are never modified
func ExecuteBulkImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := colIdx["name"]; !ok {
		return ImportMembersResult{}, ErrImportHeader
	}
	if _, ok := colIdx["email"]; !ok {
		return ImportMembersResult{}, ErrImportHeader
	}
	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result ImportMembersResult
	var inputs []AddMemberInput
	seen := map[string]bool{}
	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportMembersResult{}, fmt.Errorf("failed to read CSV row %d: %w", rowNum, err)
		}
		result.Total++

		name := getCol(row, "name")
		if name == "" {
			result.RowErrors = append(result.RowErrors, ImportMembersRowError{Row: rowNum, Message: "name is required"})
			continue
		}
		addr, err := mail.ParseAddress(getCol(row, "email"))
		if err != nil {
			result.RowErrors = append(result.RowErrors, ImportMembersRowError{Row: rowNum, Message: "invalid email: " + getCol(row, "email")})
			continue
		}
		emailAddr := strings.ToLower(addr.Address)
		if seen[emailAddr] {
			result.RowErrors = append(result.RowErrors, ImportMembersRowError{Row: rowNum, Message: "duplicate email in file: " + emailAddr})
			continue
		}
		seen[emailAddr] = true
		in := AddMemberInput{
			Name:      name,
			Email:     emailAddr,
			Phone:     getCol(row, "phone"),
			TrainerID: getCol(row, "trainer_id"),
			ActorID:   input.ActorID,
		}
		if err := validateInput(in); err != nil {
			result.RowErrors = append(result.RowErrors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		inputs = append(inputs, in)
	}

	keys := make([]string, len(inputs))
	for i, in := range inputs {
		keys[i] = in.Email
	}
	addDeps := AddMemberDeps{Members: deps.Members, GenerateID: deps.GenerateID, Now: deps.Now}
	result.Results = fanOut(ctx, keys, deps.Concurrency, func(ctx context.Context, i int, _ string) error {
		_, err := addMember(ctx, inputs[i], addDeps)
		return err
	})
	result.Created = len(result.Results) - len(Failures(result.Results))

	slog.Info("member_event", "event", "members_imported", "total", result.Total, "created", result.Created, "row_errors", len(result.RowErrors))
	emit(ctx, deps.Events, domainEvent.New(domainEvent.EventMembersImported,
		"total", result.Total, "created", result.Created).WithActor(input.ActorID))
	return result, nil
}
