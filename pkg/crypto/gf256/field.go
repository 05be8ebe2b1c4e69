// Package gf256 implements constant-time arithmetic in the finite field GF(2^8).
//
// Elements are bytes read as polynomials of degree < 8 over GF(2). Products are
// reduced modulo the Rijndael polynomial x^8 + x^4 + x^3 + x + 1 (0x11B), the same
// field used by AES and by github.com/hashicorp/vault/shamir.
//
// No operation indexes a table or branches on operand values. Multiplication walks
// the bits of one operand and folds in the other through arithmetic masks, and
// inversion raises to the power 254 with a fixed square-and-multiply chain.
package gf256

import (
	"crypto/subtle"
	"errors"
)

// reduction is the low byte of the Rijndael polynomial 0x11B.
const reduction = 0x1B

// ErrDivideByZero is returned when inverting or dividing by the additive identity.
var ErrDivideByZero = errors.New("gf256: division by zero")

// Add returns a + b. Addition in characteristic 2 is XOR.
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b, which is the same operation as Add.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b reduced modulo 0x11B.
func Mul(a, b byte) byte {
	var product byte
	for i := 0; i < 8; i++ {
		// mask is 0xFF when bit i of b is set, 0x00 otherwise.
		mask := -((b >> uint(i)) & 1)
		product ^= a & mask

		// Multiply a by x, folding the carried-out bit back in.
		carry := -(a >> 7)
		a = (a << 1) ^ (reduction & carry)
	}
	return product
}

// Pow returns a^e using a fixed eight-step square-and-multiply ladder.
// Pow(a, 0) is 1 for every a, including zero.
func Pow(a, e byte) byte {
	result := byte(1)
	for i := 7; i >= 0; i-- {
		result = Mul(result, result)
		mask := -((e >> uint(i)) & 1)
		result = (Mul(result, a) & mask) | (result &^ mask)
	}
	return result
}

// Inverse returns the multiplicative inverse of a.
//
// The multiplicative group has order 255, so a^-1 = a^254. The chain below
// computes a^3, a^7, ... a^127 and squares once more, which costs the same
// thirteen multiplications for every non-zero input.
func Inverse(a byte) (byte, error) {
	if subtle.ConstantTimeByteEq(a, 0) == 1 {
		return 0, ErrDivideByZero
	}

	b := a
	for i := 0; i < 6; i++ {
		b = Mul(b, b)
		b = Mul(b, a)
	}
	return Mul(b, b), nil
}

// Div returns a / b.
func Div(a, b byte) (byte, error) {
	inv, err := Inverse(b)
	if err != nil {
		return 0, err
	}
	return Mul(a, inv), nil
}
