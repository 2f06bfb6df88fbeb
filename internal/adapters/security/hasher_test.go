package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rollcallhq/rollcall-service/internal/adapters/security"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

// Low argon2 cost keeps the suite fast; correctness is parameter-independent.
func newTestHasher() *security.DualSchemeHasher {
	return security.NewDualSchemeHasher(security.Argon2Params{
		Time:        1,
		MemoryKiB:   8 * 1024,
		Parallelism: 1,
	})
}

func TestHashAndCompareArgon2(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	hash, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id PHC string, got %q", hash)
	}
	if security.Scheme(hash) != domain.SchemeArgon2id {
		t.Fatalf("expected argon2id scheme tag, got %q", security.Scheme(hash))
	}

	if err := h.Compare(hash, "correct horse battery"); err != nil {
		t.Fatalf("compare with correct password failed: %v", err)
	}
	if err := h.Compare(hash, "wrong password!"); !errors.Is(err, security.ErrHashMismatch) {
		t.Fatalf("expected mismatch for wrong password, got %v", err)
	}
}

func TestCompareLegacyPBKDF2(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	hash, err := security.HashPBKDF2("legacy password", 1000)
	if err != nil {
		t.Fatalf("legacy hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "pbkdf2:sha256:") {
		t.Fatalf("expected pbkdf2 tag, got %q", hash)
	}
	if security.Scheme(hash) != domain.SchemePBKDF2 {
		t.Fatalf("expected pbkdf2 scheme tag, got %q", security.Scheme(hash))
	}

	if err := h.Compare(hash, "legacy password"); err != nil {
		t.Fatalf("compare with correct legacy password failed: %v", err)
	}
	if err := h.Compare(hash, "not the password"); !errors.Is(err, security.ErrHashMismatch) {
		t.Fatalf("expected mismatch for wrong legacy password, got %v", err)
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	if _, err := h.Hash("short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput before any KDF work, got %v", err)
	}
	if _, err := security.HashPBKDF2("short", 1000); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput from legacy hasher, got %v", err)
	}
}

func TestCompareMalformedHashes(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	cases := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "unknown tag", hash: "bcrypt$whatever"},
		{name: "truncated argon2", hash: "$argon2id$v=19$m=8192,t=1,p=1"},
		{name: "bad argon2 salt encoding", hash: "$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAA"},
		{name: "bad argon2 version", hash: "$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$AAAA"},
		{name: "pbkdf2 missing segments", hash: "pbkdf2:sha256:1000$saltonly"},
		{name: "pbkdf2 bad iterations", hash: "pbkdf2:sha256:zero$salt$00ff"},
		{name: "pbkdf2 bad hex key", hash: "pbkdf2:sha256:1000$salt$nothex"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := h.Compare(tc.hash, "any password at all"); !errors.Is(err, security.ErrHashMismatch) {
				t.Fatalf("expected ErrHashMismatch, got %v", err)
			}
		})
	}
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	h := newTestHasher()
	first, err := h.Hash("same password here")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := h.Hash("same password here")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password must differ")
	}
}
