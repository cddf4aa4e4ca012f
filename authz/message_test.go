package authz

import (
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdlend/libcrowdlend-go/registry"
)

func testMessage() *Message {
	var investor, inviter registry.Address
	investor[0] = 0xaa
	inviter[0] = 0xbb
	var root Root
	root[0] = 0xcc
	return &Message{
		Investor:  investor,
		ProjectID: 7,
		Amount:    1_000_000,
		NewRoot:   root,
		Nonce:     42,
		Inviter:   inviter,
	}
}

// ---------------------------------------------------------------------------
// Encoding tests
// ---------------------------------------------------------------------------

func TestEncode_Layout(t *testing.T) {
	m := testMessage()
	buf := m.Encode()
	require.Len(t, buf, messageSize)

	assert.Equal(t, byte(0xaa), buf[0])  // investor
	assert.Equal(t, byte(7), buf[27])    // project id, big endian
	assert.Equal(t, byte(0xcc), buf[36]) // root
	assert.Equal(t, byte(42), buf[75])   // nonce, big endian
	assert.Equal(t, byte(0xbb), buf[76]) // inviter
}

func TestDigest_SensitiveToEveryField(t *testing.T) {
	base := testMessage()
	mutations := []func(*Message){
		func(m *Message) { m.Investor[19] ^= 1 },
		func(m *Message) { m.ProjectID++ },
		func(m *Message) { m.Amount++ },
		func(m *Message) { m.NewRoot[31] ^= 1 },
		func(m *Message) { m.Nonce++ },
		func(m *Message) { m.Inviter[19] ^= 1 },
	}
	for i, mutate := range mutations {
		m := *base
		mutate(&m)
		assert.NotEqual(t, base.Digest(), m.Digest(), "mutation %d should change digest", i)
	}
}

// ---------------------------------------------------------------------------
// Signature tests
// ---------------------------------------------------------------------------

func TestSignAndVerify(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	m := testMessage()
	sig, err := Sign(m, priv)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	assert.NoError(t, Verify(m, sig, priv.PubKey()))
}

func TestVerify_WrongSigner(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	other, err := ec.NewPrivateKey()
	require.NoError(t, err)

	m := testMessage()
	sig, err := Sign(m, priv)
	require.NoError(t, err)

	assert.ErrorIs(t, Verify(m, sig, other.PubKey()), ErrSignatureMismatch)
}

func TestVerify_TamperedMessage(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	m := testMessage()
	sig, err := Sign(m, priv)
	require.NoError(t, err)

	tampered := *m
	tampered.Amount++
	assert.ErrorIs(t, Verify(&tampered, sig, priv.PubKey()), ErrSignatureMismatch)
}

func TestVerify_MalformedSignature(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	m := testMessage()
	assert.ErrorIs(t, Verify(m, nil, priv.PubKey()), ErrBadSignature)
	assert.ErrorIs(t, Verify(m, []byte{0x30, 0x01}, priv.PubKey()), ErrBadSignature)
}

func TestSignVerify_NilParams(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	_, err = Sign(nil, priv)
	assert.ErrorIs(t, err, ErrNilParam)
	_, err = Sign(testMessage(), nil)
	assert.ErrorIs(t, err, ErrNilParam)

	assert.ErrorIs(t, Verify(nil, []byte{1}, priv.PubKey()), ErrNilParam)
	assert.ErrorIs(t, Verify(testMessage(), []byte{1}, nil), ErrNilParam)
}
