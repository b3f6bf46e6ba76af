package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Output is the append-only channel filled by OUT, in execution order.
type Output struct {
	data []byte
}

func (o *Output) Append(b byte) {
	o.data = append(o.data, b)
}

// Bytes returns a copy of everything emitted so far.
func (o *Output) Bytes() []byte {
	out := make([]byte, len(o.data))
	copy(out, o.data)
	return out
}

func (o *Output) Len() int {
	return len(o.data)
}

func (o *Output) since(n int) []byte {
	return o.data[n:]
}

func (o *Output) Digest() common.Hash {
	return crypto.Keccak256Hash(o.data)
}

func (o Output) MarshalText() ([]byte, error) {
	return hexutil.Bytes(o.data).MarshalText()
}

func (o *Output) UnmarshalText(text []byte) error {
	var data hexutil.Bytes
	if err := data.UnmarshalText(text); err != nil {
		return fmt.Errorf("invalid output encoding: %w", err)
	}
	o.data = data
	return nil
}
