package support

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("SIFTER_TEST_ENV", "value")
	if got := GetEnv("SIFTER_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("GetEnv returned %s, want value", got)
	}

	if got := GetEnv("SIFTER_TEST_ENV_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv returned %s, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SIFTER_TEST_INT", "42")
	if got := GetEnvInt("SIFTER_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt returned %d, want 42", got)
	}

	t.Setenv("SIFTER_TEST_INT_BAD", "not-a-number")
	if got := GetEnvInt("SIFTER_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("GetEnvInt with invalid value returned %d, want 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SIFTER_TEST_BOOL", "false")
	if got := GetEnvBool("SIFTER_TEST_BOOL", true); got {
		t.Fatal("GetEnvBool returned true, want false")
	}

	t.Setenv("SIFTER_TEST_BOOL_BAD", "maybe")
	if got := GetEnvBool("SIFTER_TEST_BOOL_BAD", true); !got {
		t.Fatal("GetEnvBool with invalid value returned false, want fallback true")
	}

	if got := GetEnvBool("SIFTER_TEST_BOOL_MISSING", true); !got {
		t.Fatal("GetEnvBool with unset variable returned false, want fallback true")
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	if got1, got2 := HashKey("input"), HashKey("input"); got1 != got2 {
		t.Fatal("HashKey returned different values for the same input")
	}

	if HashKey("input") == HashKey("different") {
		t.Fatal("HashKey returned same value for different inputs")
	}
}
