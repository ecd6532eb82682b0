package hash

import "testing"

func TestHashRoundTrip(t *testing.T) {
	h := New("pepper")

	hashed, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := h.Verify("secret", hashed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password must verify")
	}

	ok, err = h.Verify("wrong", hashed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h := New("")

	a, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("repeated hashing of the same input must differ")
	}
}

func TestPepperMismatch(t *testing.T) {
	hashed, err := New("right").Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := New("wrong").Verify("secret", hashed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("verify must fail with a different pepper")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if _, err := New("").Verify("secret", "not-an-argon2id-hash"); err == nil {
		t.Fatal("malformed stored hash must surface an error")
	}
}
