package envutil

import "testing"

func TestStr(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_STR", "  value  ")
	if got := Str("ENVUTIL_TEST_STR", "def"); got != "value" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := Str("ENVUTIL_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "42")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", "not-a-number")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 7 {
		t.Fatalf("expected default on parse failure, got %d", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_FLOAT", "0.75")
	if got := Float("ENVUTIL_TEST_FLOAT", 0.2); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	t.Setenv("ENVUTIL_TEST_FLOAT", "warm")
	if got := Float("ENVUTIL_TEST_FLOAT", 0.2); got != 0.2 {
		t.Fatalf("expected default on parse failure, got %v", got)
	}
	if got := Float("ENVUTIL_TEST_FLOAT_MISSING", 1.5); got != 1.5 {
		t.Fatalf("expected default when unset, got %v", got)
	}
}

func TestBool(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", "on"} {
		t.Setenv("ENVUTIL_TEST_BOOL", raw)
		if !Bool("ENVUTIL_TEST_BOOL", false) {
			t.Fatalf("%q should read as true", raw)
		}
	}
	for _, raw := range []string{"0", "false", "NO", "off"} {
		t.Setenv("ENVUTIL_TEST_BOOL", raw)
		if Bool("ENVUTIL_TEST_BOOL", true) {
			t.Fatalf("%q should read as false", raw)
		}
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if !Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("unrecognized value should fall back to default")
	}
}
