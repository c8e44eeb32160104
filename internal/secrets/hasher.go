package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params holds Argon2id cost parameters
type Params struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength uint32
}

// DefaultParams is the argon2id cost used when nothing is configured
func DefaultParams() Params {
	return Params{
		Time:       1,
		Memory:     64 * 1024,
		Threads:    4,
		KeyLength:  32,
		SaltLength: 16,
	}
}

// Hasher hashes and verifies login passwords and bank secrets. Hashes use the
// PHC string format, so each one carries the cost it was made with:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Hasher struct {
	params Params
}

func NewHasher(params Params) *Hasher {
	if params.SaltLength == 0 {
		params.SaltLength = 16
	}
	if params.KeyLength == 0 {
		params.KeyLength = 32
	}
	if params.Time == 0 {
		params.Time = 1
	}
	if params.Memory == 0 {
		params.Memory = 64 * 1024
	}
	if params.Threads == 0 {
		params.Threads = 4
	}
	return &Hasher{params: params}
}

// Hash derives a salted Argon2id hash of secret
func (h *Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether secret matches the encoded hash. The cost stored in
// the hash is used, not the hasher's current one. Hashes in the older
// base64(salt)$base64(hash) form are checked with the current cost.
func (h *Hasher) Verify(secret, encoded string) (bool, error) {
	var (
		p          = h.params
		salt, want []byte
		err        error
	)

	parts := strings.Split(encoded, "$")
	switch len(parts) {
	case 6:
		p, salt, want, err = decodePHC(parts)
	case 2:
		salt, want, err = decodeParts(parts[0], parts[1], base64.StdEncoding)
	default:
		err = errors.New("invalid secret hash format")
	}
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(computed, want) == 1, nil
}

func decodePHC(parts []string) (Params, []byte, []byte, error) {
	var p Params
	if parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("unsupported secret hash algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %q", parts[2])
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("invalid argon2 parameters %q: %w", parts[3], err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, fmt.Errorf("invalid argon2 parameters %q", parts[3])
	}

	salt, hash, err := decodeParts(parts[4], parts[5], base64.RawStdEncoding)
	return p, salt, hash, err
}

func decodeParts(saltPart, hashPart string, enc *base64.Encoding) ([]byte, []byte, error) {
	salt, err := enc.DecodeString(saltPart)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid secret hash salt: %w", err)
	}

	hash, err := enc.DecodeString(hashPart)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid secret hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, errors.New("empty secret hash")
	}
	return salt, hash, nil
}
