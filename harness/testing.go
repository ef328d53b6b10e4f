package harness

import "testing"

// Require fails t when the scrape errored or the batch did not pass. The
// failure message includes the first offending record and its violations.
func Require(t testing.TB, res *BatchResult, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("%v", err)
		return
	}
	if res == nil {
		t.Fatalf("no batch result")
		return
	}
	if verr := res.Err(); verr != nil {
		t.Fatalf("%v", verr)
	}
}
