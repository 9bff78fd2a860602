package main

import "testing"

func TestErrorJSONPayload(t *testing.T) {
	got := errorJSON("reading config: %s", "bad yaml")

	if len(got) != 1 {
		t.Fatalf("payload has %d keys, want only error", len(got))
	}
	if got["error"] != "reading config: bad yaml" {
		t.Errorf("error = %q, want formatted message", got["error"])
	}
}
