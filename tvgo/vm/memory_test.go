package vm

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestMemoryBounds(t *testing.T) {
	m := NewMemory([]byte{1, 2, 3})
	require.Equal(t, uint64(3), m.Size())

	b, err := m.GetByte(2)
	require.NoError(t, err)
	require.Equal(t, byte(3), b)

	_, err = m.GetByte(3)
	require.ErrorIs(t, err, ErrMemoryBounds)
	require.ErrorIs(t, m.SetByte(3, 0), ErrMemoryBounds)

	require.NoError(t, m.SetByte(0, 9))
	r, err := m.Range(0, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 2, 3}, r)

	_, err = m.Range(1, 3)
	require.ErrorIs(t, err, ErrMemoryBounds)
	_, err = m.Range(2, ^uint64(0))
	require.ErrorIs(t, err, ErrMemoryBounds)
}

func TestMemoryRangeIsCopy(t *testing.T) {
	m := NewMemory([]byte{1, 2})
	r, err := m.Range(0, 2)
	require.NoError(t, err)
	r[0] = 0xFF
	b, err := m.GetByte(0)
	require.NoError(t, err)
	require.Equal(t, byte(1), b)
}

func TestMemoryDigest(t *testing.T) {
	m := NewMemory([]byte("hello"))
	require.Equal(t, crypto.Keccak256Hash([]byte("hello")), m.Digest())
	require.NoError(t, m.SetByte(0, 'j'))
	require.Equal(t, crypto.Keccak256Hash([]byte("jello")), m.Digest())
}

func TestMemoryJSON(t *testing.T) {
	m := NewMemory([]byte{0xde, 0xad, 0xbe, 0xef})
	dat, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, `"0xdeadbeef"`, string(dat))

	var m2 Memory
	require.NoError(t, json.Unmarshal(dat, &m2))
	require.Equal(t, m, &m2)

	require.Error(t, json.Unmarshal([]byte(`"deadbeef"`), &m2))
}

func TestOutput(t *testing.T) {
	var o Output
	o.Append('h')
	o.Append('i')
	require.Equal(t, 2, o.Len())
	out := o.Bytes()
	require.Equal(t, []byte("hi"), out)
	out[0] = 'x'
	require.Equal(t, []byte("hi"), o.Bytes())
	require.Equal(t, []byte("i"), o.since(1))

	dat, err := json.Marshal(o)
	require.NoError(t, err)
	require.Equal(t, `"0x6869"`, string(dat))
}
