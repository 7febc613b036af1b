package percent

import "testing"

func TestFromString(t *testing.T) {
	for s, expected := range map[string]Percent{
		"99%":   99,
		" 50 ":  50,
		"99.4%": 99,
		"140%":  100,
		"-3":    0,
	} {
		p, err := FromString(s)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", s, err)
		}
		if p != expected {
			t.Errorf("expected %q to be %s, is %s", s, expected, p)
		}
	}
	if _, err := FromString("lots"); err == nil {
		t.Errorf("expected error for non-numeric percentage")
	}
}

func TestOf(t *testing.T) {
	if v := FromInt(99).Of(360); v < 356.39 || v > 356.41 {
		t.Errorf("expected 99%% of 360 to be 356.4, is %g", v)
	}
}
