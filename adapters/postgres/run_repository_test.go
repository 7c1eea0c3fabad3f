package postgres

import (
	"testing"
	"time"

	"substratex/domain/run"
)

// stubScanner replays fixed column values into scanManifest.
type stubScanner struct {
	parameters []byte
	counts     []byte
}

func (s stubScanner) Scan(dest ...interface{}) error {
	*dest[0].(*string) = "run-1"
	*dest[1].(*run.Kind) = run.KindSweep
	*dest[2].(*run.Status) = run.StatusCompleted
	*dest[3].(*int64) = 42
	*dest[4].(*[]byte) = s.parameters
	*dest[5].(*[]byte) = s.counts
	*dest[6].(*string) = "abc"
	*dest[7].(*string) = ""
	*dest[8].(*int64) = 17
	*dest[9].(*time.Time) = time.Unix(1700000000, 0)
	*dest[10].(*time.Time) = time.Unix(1700000100, 0)
	return nil
}

func TestScanManifestDecodesPayloads(t *testing.T) {
	manifest, err := scanManifest(stubScanner{
		parameters: []byte(`{"universality":0.94}`),
		counts:     []byte(`{"STABLE":12}`),
	})
	if err != nil {
		t.Fatalf("scanManifest: %v", err)
	}
	if manifest.RunID.String() != "run-1" || manifest.Seed != 42 {
		t.Errorf("manifest identity = %s/%d, want run-1/42", manifest.RunID, manifest.Seed)
	}
	if manifest.Parameters["universality"] != 0.94 {
		t.Errorf("parameters = %v, want universality 0.94", manifest.Parameters)
	}
	if manifest.Counts["STABLE"] != 12 {
		t.Errorf("counts = %v, want STABLE 12", manifest.Counts)
	}
}

func TestScanManifestRejectsCorruptPayload(t *testing.T) {
	if _, err := scanManifest(stubScanner{parameters: []byte(`{broken`)}); err == nil {
		t.Error("expected error for corrupt parameters payload")
	}
	if _, err := scanManifest(stubScanner{counts: []byte(`not json`)}); err == nil {
		t.Error("expected error for corrupt counts payload")
	}
}
