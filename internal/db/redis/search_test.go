package redis

import (
	"testing"

	"github.com/kailas-cloud/quizdex/internal/db"
)

func TestBuildKNNArgs_CarriesLimitMatchingK(t *testing.T) {
	q := &db.KNNQuery{
		IndexName:    "idx:passages",
		Vector:       []float32{0.1, 0.2},
		CollectionID: "col-1",
		K:            16,
		ReturnFields: []string{"__content", "filename"},
	}

	args := buildKNNArgs(q)

	// FT.SEARCH defaults to a page size of 10: K above that must be paired
	// with an explicit LIMIT or the extra hits never come back.
	if !hasSubsequence(args, "LIMIT", "0", "16") {
		t.Fatalf("expected LIMIT 0 16 in args, got %q", args)
	}
	if !hasSubsequence(args, "DIALECT", "2") {
		t.Fatalf("expected DIALECT 2 in args, got %q", args)
	}
	if args[1] != "(@collection_id:{col\\-1})=>[KNN 16 @__vector $BLOB]" {
		t.Fatalf("unexpected query string %q", args[1])
	}
}

func TestBuildKNNArgs_NoFilterWithoutCollection(t *testing.T) {
	q := &db.KNNQuery{
		IndexName: "idx:passages",
		Vector:    []float32{0.1},
		K:         4,
	}

	args := buildKNNArgs(q)
	if args[1] != "*=>[KNN 4 @__vector $BLOB]" {
		t.Fatalf("unexpected query string %q", args[1])
	}
	if !hasSubsequence(args, "LIMIT", "0", "4") {
		t.Fatalf("expected LIMIT 0 4 in args, got %q", args)
	}
}

// hasSubsequence reports whether want appears contiguously in args.
func hasSubsequence(args []string, want ...string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		match := true
		for j := range want {
			if args[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
