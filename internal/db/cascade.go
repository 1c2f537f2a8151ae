package db

import (
	"context"
	"fmt"
)

// cascadeTables are the dependent tables purged before the process row,
// in order. There is no foreign-key cascade in the schema; the traversal
// is explicit so each step can fail without stopping the rest.
var cascadeTables = []string{
	"documents",
	"reports",
	"risk_agents",
	"questionnaires",
	"process_access",
	"schedule_email_receipts",
}

// CascadeResult reports what a cascading delete removed and which steps
// failed. Warnings are non-fatal: a failed table purge never blocks the
// remaining steps or the final process row delete.
type CascadeResult struct {
	RowsDeleted map[string]int64 `json:"rows_deleted"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// DeleteProcessCascade removes the process and every dependent row. The
// caller is responsible for purging the storage prefix and for checking
// access before invoking it.
func (s *Store) DeleteProcessCascade(ctx context.Context, processID string) (CascadeResult, error) {
	result := CascadeResult{RowsDeleted: map[string]int64{}}

	for _, table := range cascadeTables {
		tag, err := s.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE process_id = $1`, table), processID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("delete %s: %v", table, err))
			continue
		}
		result.RowsDeleted[table] = tag.RowsAffected()
	}

	tag, err := s.Pool.Exec(ctx, `DELETE FROM processes WHERE id = $1`, processID)
	if err != nil {
		return result, err
	}
	result.RowsDeleted["processes"] = tag.RowsAffected()
	return result, nil
}
