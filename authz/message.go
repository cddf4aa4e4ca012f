// Package authz implements the off-chain authorization protocol for
// investment calls. A trusted signer binds (investor, project, amount,
// whitelist root, nonce, inviter) into one message; its signature over the
// message digest is the sole admission check for InvestUpdate — it stands in
// for on-chain whitelist-proof verification.
//
// The digest is Keccak-256 over a fixed-layout big-endian encoding, so
// signers on EVM tooling produce identical message hashes. Signatures are DER
// ECDSA over secp256k1.
package authz

import (
	"encoding/binary"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"golang.org/x/crypto/sha3"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

// RootSize is the length of a whitelist Merkle root in bytes.
const RootSize = 32

// Root is a whitelist Merkle root.
type Root [RootSize]byte

// messageSize is the encoded message length:
// investor(20) + project(8) + amount(8) + root(32) + nonce(8) + inviter(20).
const messageSize = 96

// Message is the content the trusted signer authorizes.
type Message struct {
	Investor  registry.Address
	ProjectID uint64
	Amount    uint64
	NewRoot   Root
	Nonce     uint64
	Inviter   registry.Address
}

// Encode serializes the message in its canonical fixed layout.
func (m *Message) Encode() []byte {
	buf := make([]byte, messageSize)
	offset := 0

	copy(buf[offset:offset+registry.AddressSize], m.Investor[:])
	offset += registry.AddressSize

	binary.BigEndian.PutUint64(buf[offset:offset+8], m.ProjectID)
	offset += 8

	binary.BigEndian.PutUint64(buf[offset:offset+8], m.Amount)
	offset += 8

	copy(buf[offset:offset+RootSize], m.NewRoot[:])
	offset += RootSize

	binary.BigEndian.PutUint64(buf[offset:offset+8], m.Nonce)
	offset += 8

	copy(buf[offset:offset+registry.AddressSize], m.Inviter[:])
	return buf
}

// Digest returns the Keccak-256 hash of the encoded message.
func (m *Message) Digest() []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(m.Encode())
	return h.Sum(nil)
}

// Sign produces a DER signature over the message digest.
func Sign(m *Message, priv *ec.PrivateKey) ([]byte, error) {
	if m == nil || priv == nil {
		return nil, ErrNilParam
	}
	sig, err := priv.Sign(m.Digest())
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// Verify checks a DER signature over the message digest against the trusted
// signer's public key.
func Verify(m *Message, sigDER []byte, signer *ec.PublicKey) error {
	if m == nil || signer == nil {
		return ErrNilParam
	}
	if len(sigDER) == 0 {
		return ErrBadSignature
	}
	sig, err := ec.ParseDERSignature(sigDER)
	if err != nil {
		return ErrBadSignature
	}
	if !sig.Verify(m.Digest(), signer) {
		return ErrSignatureMismatch
	}
	return nil
}
