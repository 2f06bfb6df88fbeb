package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/rollcallhq/rollcall-service/internal/domain"
)

// ErrHashMismatch is returned for any failed comparison, including malformed
// or unrecognized stored hashes. Callers fold it into a generic credential
// failure so the reason never leaks.
var ErrHashMismatch = errors.New("password hash mismatch")

const (
	argon2Prefix = "$argon2id$"
	pbkdf2Prefix = "pbkdf2:sha256:"

	saltLength = 16
	keyLength  = 32
)

// Argon2Params are the fixed argon2id cost parameters, chosen once at
// deployment and never varied per call.
type Argon2Params struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// DualSchemeHasher verifies both stored hash schemes and always produces the
// current preferred one. The legacy pbkdf2 form exists because the system
// migrated its hashing scheme in place and both forms still coexist in
// storage.
type DualSchemeHasher struct {
	params Argon2Params
}

// NewDualSchemeHasher creates a hasher with default fallback parameters.
func NewDualSchemeHasher(params Argon2Params) *DualSchemeHasher {
	if params.Time == 0 {
		params.Time = 1
	}
	if params.MemoryKiB == 0 {
		params.MemoryKiB = 64 * 1024
	}
	if params.Parallelism == 0 {
		params.Parallelism = 4
	}
	return &DualSchemeHasher{params: params}
}

// Hash derives an argon2id PHC string from the plaintext. Too-short input is
// rejected before any KDF work.
func (h *DualSchemeHasher) Hash(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Parallelism, keyLength)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare dispatches on the scheme tag embedded in the stored hash.
// Any malformed or unrecognized hash compares as a mismatch, never a panic.
func (h *DualSchemeHasher) Compare(hash, password string) error {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return compareArgon2(hash, password)
	case strings.HasPrefix(hash, pbkdf2Prefix):
		return comparePBKDF2(hash, password)
	default:
		return ErrHashMismatch
	}
}

// Scheme reports the credential scheme tag of a stored hash, empty when
// unrecognized.
func Scheme(hash string) string {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return domain.SchemeArgon2id
	case strings.HasPrefix(hash, pbkdf2Prefix):
		return domain.SchemePBKDF2
	default:
		return ""
	}
}

// compareArgon2 re-derives the key with the parameters encoded in the stored
// PHC string, so records hashed under older deployments still verify.
func compareArgon2(hash, password string) error {
	parts := strings.Split(hash, "$")
	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
	if len(parts) != 6 {
		return ErrHashMismatch
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrHashMismatch
	}

	var memoryKiB, timeCost uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKiB, &timeCost, &parallelism); err != nil {
		return ErrHashMismatch
	}
	if memoryKiB == 0 || timeCost == 0 || parallelism == 0 {
		return ErrHashMismatch
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrHashMismatch
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return ErrHashMismatch
	}

	got := argon2.IDKey([]byte(password), salt, timeCost, memoryKiB, parallelism, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrHashMismatch
	}
	return nil
}

// comparePBKDF2 verifies the legacy pbkdf2:sha256:<iters>$<salt>$<hexkey>
// form kept for credentials that predate the argon2id migration.
func comparePBKDF2(hash, password string) error {
	rest := strings.TrimPrefix(hash, pbkdf2Prefix)
	parts := strings.Split(rest, "$")
	if len(parts) != 3 {
		return ErrHashMismatch
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return ErrHashMismatch
	}
	salt := parts[1]
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return ErrHashMismatch
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrHashMismatch
	}
	return nil
}

// HashPBKDF2 produces a legacy-scheme hash. Kept for migration tooling and
// tests; new credentials always use Hash.
func HashPBKDF2(password string, iterations int) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	if iterations <= 0 {
		iterations = 260000
	}

	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, iterations, salt, hex.EncodeToString(key)), nil
}
