package math

import "testing"

func TestDivRoundUp(t *testing.T) {
	for _, testCase := range []struct {
		a, b, wanted int64
	}{
		{a: 0, b: 1024, wanted: 0},
		{a: 1, b: 1024, wanted: 1},
		{a: 1024, b: 1024, wanted: 1},
		{a: 1025, b: 1024, wanted: 2},
		{a: 5000, b: 1024, wanted: 5},
	} {
		if found := DivRoundUp(testCase.a, testCase.b); found != testCase.wanted {
			t.Fatalf(
				"DivRoundUp(%d, %d): wanted `%d`; found `%d`",
				testCase.a,
				testCase.b,
				testCase.wanted,
				found,
			)
		}
	}
}

func TestMinMax(t *testing.T) {
	if found := Min[uint32](3, 7); found != 3 {
		t.Fatalf("Min(): wanted `3`; found `%d`", found)
	}
	if found := Max[int64](-1, 7); found != 7 {
		t.Fatalf("Max(): wanted `7`; found `%d`", found)
	}
}
