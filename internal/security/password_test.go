package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if hash == "s3nha-forte" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := CheckPassword(hash, "s3nha-forte"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
