package domain

import "testing"

func TestRatioInvariant(t *testing.T) {
	lengths := []int{0, 10, 51, 100, 201, 400, 501, 10000}
	for _, l := range lengths {
		for _, variant := range []int{1, 2, 3, 4} {
			for _, div := range []bool{true, false} {
				r := RatioForContent(l, variant, div)
				if r.ContentPct+r.GeneralPct != 100 {
					t.Errorf("len=%d variant=%d diversify=%v: %d+%d != 100",
						l, variant, div, r.ContentPct, r.GeneralPct)
				}
				if r.ContentPct < 0 || r.GeneralPct < 0 {
					t.Errorf("len=%d: negative percentage", l)
				}
			}
		}
	}
}

func TestRatioMonotonicity(t *testing.T) {
	// For fixed variant parity, more content never decreases the content share.
	lengths := []int{0, 51, 201, 501, 2000}
	for _, variant := range []int{1, 2} {
		prev := -1
		for _, l := range lengths {
			r := RatioForContent(l, variant, true)
			if r.ContentPct < prev {
				t.Errorf("variant %d: content share dropped from %d to %d at len=%d",
					variant, prev, r.ContentPct, l)
			}
			prev = r.ContentPct
		}
	}
}

func TestRatioEvenVariantBias(t *testing.T) {
	odd := RatioForContent(1000, 1, true)
	even := RatioForContent(1000, 2, true)
	if even.ContentPct >= odd.ContentPct {
		t.Errorf("even variant should bias toward general: odd=%d even=%d",
			odd.ContentPct, even.ContentPct)
	}
}

func TestRatioNoDiversification(t *testing.T) {
	// Without diversification every variant gets the content-heavy split.
	v1 := RatioForContent(1000, 1, false)
	v2 := RatioForContent(1000, 2, false)
	if v1 != v2 {
		t.Errorf("expected identical ratios, got %+v vs %+v", v1, v2)
	}
	if v1.ContentPct != 90 {
		t.Errorf("expected 90/10 for long content, got %d", v1.ContentPct)
	}
}

func TestRatioSparseContentIgnoresParity(t *testing.T) {
	v1 := RatioForContent(10, 1, true)
	v2 := RatioForContent(10, 2, true)
	if v1 != v2 {
		t.Errorf("sparse tier should not diversify: %+v vs %+v", v1, v2)
	}
	if v1.ContentPct != 20 {
		t.Errorf("expected 20/80 for sparse content, got %d", v1.ContentPct)
	}
}

func TestNewContentRatio_Bounds(t *testing.T) {
	if _, err := NewContentRatio(101); err == nil {
		t.Error("expected error for 101")
	}
	if _, err := NewContentRatio(-1); err == nil {
		t.Error("expected error for -1")
	}
	r, err := NewContentRatio(70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.GeneralPct != 30 {
		t.Errorf("expected general 30, got %d", r.GeneralPct)
	}
}
