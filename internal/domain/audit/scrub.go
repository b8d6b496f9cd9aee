package audit

import (
	"context"
	"encoding/json"
)

// scrubKeys are the personal-data fields removed from historical audit
// snapshots when a check is erased. The set matches the snapshot field
// names written by Record.
var scrubKeys = []string{
	"fullName",
	"dateOfBirth",
	"shareCode",
	"verificationAnswers",
	"notes",
	"scanPath",
	"scanFilename",
}

// ScrubSnapshot removes the personal-data keys from a JSON snapshot,
// preserving everything else. The second return reports whether anything
// changed; a snapshot without the keys (or a non-object payload) comes
// back untouched.
func ScrubSnapshot(raw []byte) ([]byte, bool) {
	if len(raw) == 0 {
		return raw, false
	}
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return raw, false
	}
	changed := false
	for _, key := range scrubKeys {
		if _, ok := snapshot[key]; ok {
			delete(snapshot, key)
			changed = true
		}
	}
	if !changed {
		return raw, false
	}
	scrubbed, err := json.Marshal(snapshot)
	if err != nil {
		return raw, false
	}
	return scrubbed, true
}

// ScrubCheck redacts personal data from every audit entry for a check.
// Entries are updated in place and never removed; running it again after
// a completed pass is a no-op.
func (s *Service) ScrubCheck(ctx context.Context, checkID string) error {
	rows, err := s.DB.Query(ctx, `
    SELECT id, before_json, after_json
    FROM audit_events
    WHERE check_id = $1
  `, checkID)
	if err != nil {
		return err
	}

	type pending struct {
		id     string
		before []byte
		after  []byte
	}
	var updates []pending
	for rows.Next() {
		var entry pending
		if err := rows.Scan(&entry.id, &entry.before, &entry.after); err != nil {
			rows.Close()
			return err
		}
		before, beforeChanged := ScrubSnapshot(entry.before)
		after, afterChanged := ScrubSnapshot(entry.after)
		if !beforeChanged && !afterChanged {
			continue
		}
		entry.before = before
		entry.after = after
		updates = append(updates, entry)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, entry := range updates {
		if _, err := s.DB.Exec(ctx, `
      UPDATE audit_events
      SET before_json = $1, after_json = $2
      WHERE id = $3
    `, entry.before, entry.after, entry.id); err != nil {
			return err
		}
	}
	return nil
}
