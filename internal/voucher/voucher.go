// Package voucher implements the offline authorization message format and its
// signature recovery. A beneficiary signs the message while offline; a vendor
// submits it later, and the ledger recovers the signer address from the
// signature alone.
//
// The message bytes are part of the external interface: any drift from the
// exact format breaks verification against signatures produced by wallets.
package voucher

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// signedMessagePrefix is the standard "personal message" prefix. The "32" is
// the length of the payload that follows: signers hash the voucher message
// first and sign the 32-byte digest, not the raw message.
const signedMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Message builds the exact byte string a beneficiary signs to authorize a
// transfer. The amount is the integer string of the amount in base units; no
// decimal formatting is applied.
func Message(amount uint64, nonce uint64) []byte {
	return []byte("Authorize transfer of " + strconv.FormatUint(amount, 10) +
		" to vendor. Nonce: " + strconv.FormatUint(nonce, 10))
}

// Recover returns the lowercase hex address of the key that signed message.
// The signature is the 65-byte r || s || v form; v is accepted as 0/1 or
// 27/28. Any malformed or unrecoverable signature is an error.
func Recover(message, signature []byte) (string, error) {
	if len(signature) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(signature))
	}
	v := signature[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return "", fmt.Errorf("invalid recovery id %d", signature[64])
	}

	// RecoverCompact wants the recovery code first.
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:], signature[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, SignedDigest(message))
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}
	return PubKeyAddress(pub), nil
}

// Sign produces an r || s || v signature over message with the given key,
// byte-compatible with what Recover accepts. It exists for tests and tooling;
// production signatures come from external wallets.
func Sign(key *secp256k1.PrivateKey, message []byte) []byte {
	compact := ecdsa.SignCompact(key, SignedDigest(message), false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

// SignedDigest returns the digest that is actually signed: the keccak-256 of
// the message, run through the personal-message prefix-and-hash transform.
func SignedDigest(message []byte) []byte {
	inner := keccak256(message)
	return keccak256([]byte(signedMessagePrefix), inner)
}

// PubKeyAddress derives the lowercase hex address for a public key: the last
// 20 bytes of the keccak-256 of the uncompressed key without its 0x04 prefix.
func PubKeyAddress(pub *secp256k1.PublicKey) string {
	raw := pub.SerializeUncompressed()
	h := keccak256(raw[1:])
	return "0x" + hex.EncodeToString(h[12:])
}

func keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}
