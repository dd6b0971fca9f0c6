package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Hash methods understood by PasswordHasher.
const (
	MethodPBKDF2SHA256 = "pbkdf2:sha256"
	MethodPBKDF2SHA512 = "pbkdf2:sha512"
	MethodBcrypt       = "bcrypt"
)

const (
	saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// iteration count assumed for pbkdf2 hashes that do not record one
	legacyPBKDF2Iterations = 260000

	scryptKeyLen = 64
)

var (
	ErrEmptyPassword       = errors.New("password is empty")
	errUnsupportedHashAlgo = errors.New("unsupported hash method")
)

// PasswordHasher derives and checks salted password hashes.
//
// pbkdf2 hashes use the werkzeug layout
// "pbkdf2:<digest>:<iterations>$<salt>$<hex>", so accounts created by
// werkzeug-based deployments keep working. Verify also accepts werkzeug
// scrypt hashes and bcrypt hashes.
type PasswordHasher struct {
	Method     string
	Iterations int
	SaltLength int
}

// DefaultPasswordHasher matches werkzeug's generate_password_hash defaults
// for pbkdf2:sha256 with an 8 character salt.
func DefaultPasswordHasher() PasswordHasher {
	return PasswordHasher{Method: MethodPBKDF2SHA256, Iterations: 600000, SaltLength: 8}
}

// Hash returns a salted one-way hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	switch h.Method {
	case MethodBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return string(b), nil
	case MethodPBKDF2SHA256, MethodPBKDF2SHA512, "":
		method := h.Method
		if method == "" {
			method = MethodPBKDF2SHA256
		}
		iterations := h.Iterations
		if iterations <= 0 {
			iterations = DefaultPasswordHasher().Iterations
		}
		saltLen := h.SaltLength
		if saltLen <= 0 {
			saltLen = DefaultPasswordHasher().SaltLength
		}

		salt, err := randomSalt(saltLen)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		newHash, _ := digestFor(strings.TrimPrefix(method, "pbkdf2:"))
		sum := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
		return fmt.Sprintf("%s:%d$%s$%s", method, iterations, salt, hex.EncodeToString(sum)), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedHashAlgo, h.Method)
	}
}

// Verify reports whether candidate matches stored. A malformed or unknown
// hash never matches.
func (h PasswordHasher) Verify(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}

	method, salt, want, ok := splitWerkzeugHash(stored)
	if !ok {
		return false
	}
	wantSum, err := hex.DecodeString(want)
	if err != nil || len(wantSum) == 0 {
		return false
	}

	var got []byte
	switch parts := strings.Split(method, ":"); parts[0] {
	case "pbkdf2":
		got, ok = pbkdf2Sum(parts[1:], salt, candidate)
	case "scrypt":
		got, ok = scryptSum(parts[1:], salt, candidate)
	default:
		return false
	}
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(got, wantSum) == 1
}

func splitWerkzeugHash(stored string) (method, salt, sum string, ok bool) {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func pbkdf2Sum(args []string, salt, candidate string) ([]byte, bool) {
	if len(args) == 0 || len(args) > 2 {
		return nil, false
	}
	newHash, ok := digestFor(args[0])
	if !ok {
		return nil, false
	}
	iterations := legacyPBKDF2Iterations
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return nil, false
		}
		iterations = n
	}
	return pbkdf2.Key([]byte(candidate), []byte(salt), iterations, newHash().Size(), newHash), true
}

// scrypt:<N>:<r>:<p>
func scryptSum(args []string, salt, candidate string) ([]byte, bool) {
	if len(args) != 3 {
		return nil, false
	}
	var nrp [3]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v <= 0 {
			return nil, false
		}
		nrp[i] = v
	}
	sum, err := scrypt.Key([]byte(candidate), []byte(salt), nrp[0], nrp[1], nrp[2], scryptKeyLen)
	if err != nil {
		return nil, false
	}
	return sum, true
}

func digestFor(name string) (func() hash.Hash, bool) {
	switch name {
	case "sha256":
		return sha256.New, true
	case "sha512":
		return sha512.New, true
	}
	return nil, false
}

func randomSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltChars)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
