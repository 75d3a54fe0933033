// Package cryptox derives the sign-in verifier. The password never leaves
// the client: it is stretched with argon2id over a per-user salt and only a
// SHA-256 digest of the derived key is sent to the server.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/daybook/internal/common"
	"golang.org/x/crypto/argon2"
)

const SaltSize = 16

func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// VerifierFor is DeriveMasterKey followed by MakeVerifier; the intermediate
// key is wiped before returning.
func VerifierFor(password, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

func VerifiersEqual(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}
