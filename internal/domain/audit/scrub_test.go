package audit

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestScrubSnapshotRemovesPersonalKeys(t *testing.T) {
	raw := []byte(`{"fullName":"Ada Lovelace","dateOfBirth":"1990-02-01","shareCode":"ABC123XYZ","verificationAnswers":{"photoMatches":"Yes"},"notes":"seen in person","scanPath":"scans/1/passport.pdf","scanFilename":"passport.pdf","status":"valid","checkType":"initial"}`)

	scrubbed, changed := ScrubSnapshot(raw)
	if !changed {
		t.Fatal("expected snapshot to change")
	}

	var snapshot map[string]any
	if err := json.Unmarshal(scrubbed, &snapshot); err != nil {
		t.Fatalf("scrubbed snapshot is not valid JSON: %v", err)
	}
	for _, key := range scrubKeys {
		if _, ok := snapshot[key]; ok {
			t.Fatalf("expected %s to be removed", key)
		}
	}
	if snapshot["status"] != "valid" {
		t.Fatalf("expected non-personal fields preserved, got %+v", snapshot)
	}
	if snapshot["checkType"] != "initial" {
		t.Fatalf("expected checkType preserved, got %+v", snapshot)
	}
}

func TestScrubSnapshotIdempotent(t *testing.T) {
	raw := []byte(`{"fullName":"Ada Lovelace","status":"expired"}`)

	once, changed := ScrubSnapshot(raw)
	if !changed {
		t.Fatal("expected first pass to change the snapshot")
	}
	twice, changed := ScrubSnapshot(once)
	if changed {
		t.Fatal("expected second pass to be a no-op")
	}
	if !bytes.Equal(once, twice) {
		t.Fatalf("second pass altered the snapshot: %s vs %s", once, twice)
	}
}

func TestScrubSnapshotAbsentKeys(t *testing.T) {
	raw := []byte(`{"status":"valid"}`)
	scrubbed, changed := ScrubSnapshot(raw)
	if changed {
		t.Fatal("expected no change when keys are absent")
	}
	if !bytes.Equal(raw, scrubbed) {
		t.Fatalf("snapshot altered: %s", scrubbed)
	}
}

func TestScrubSnapshotEmptyAndMalformed(t *testing.T) {
	if scrubbed, changed := ScrubSnapshot(nil); changed || scrubbed != nil {
		t.Fatal("expected empty snapshot to pass through")
	}
	raw := []byte(`not json`)
	scrubbed, changed := ScrubSnapshot(raw)
	if changed || !bytes.Equal(raw, scrubbed) {
		t.Fatal("expected malformed snapshot to pass through untouched")
	}
}
