package encoding

import (
	"errors"
	"math/big"
	"strings"
)

// Bitcoin alphabet, used by Indy DIDs and tails hashes
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var bigRadix = big.NewInt(58)

// ErrInvalidBase58 is returned for input containing characters outside the alphabet
var ErrInvalidBase58 = errors.New("invalid base58 character")

// EncodeBase58 encodes a byte slice to base58 string
func EncodeBase58(input []byte) string {
	if len(input) == 0 {
		return ""
	}

	x := new(big.Int).SetBytes(input)
	mod := new(big.Int)
	out := make([]byte, 0, len(input)*138/100+1)
	for x.Sign() > 0 {
		x.DivMod(x, bigRadix, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, base58Alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// DecodeBase58 decodes a base58 string to a byte slice
func DecodeBase58(input string) ([]byte, error) {
	if input == "" {
		return nil, nil
	}

	x := new(big.Int)
	digit := new(big.Int)
	zeros := 0
	leading := true
	for i := 0; i < len(input); i++ {
		idx := strings.IndexByte(base58Alphabet, input[i])
		if idx < 0 {
			return nil, ErrInvalidBase58
		}
		if leading && idx == 0 {
			zeros++
			continue
		}
		leading = false
		x.Mul(x, bigRadix)
		x.Add(x, digit.SetInt64(int64(idx)))
	}

	decoded := x.Bytes()
	if zeros == 0 {
		return decoded, nil
	}
	return append(make([]byte, zeros), decoded...), nil
}

// IsValidBase58 checks if a string contains only valid base58 characters
func IsValidBase58(input string) bool {
	for i := 0; i < len(input); i++ {
		if strings.IndexByte(base58Alphabet, input[i]) < 0 {
			return false
		}
	}
	return true
}
