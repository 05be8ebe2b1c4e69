// Package polynomial represents polynomials with coefficients in GF(2^8).
package polynomial

import (
	"errors"
	"fmt"

	"github.com/Davincible/sss/pkg/crypto/gf256"
	"github.com/Davincible/sss/pkg/crypto/random"
	"github.com/Davincible/sss/pkg/secure"
)

// MaxDegree is the largest degree Generate accepts. A threshold of 255 shares
// needs a polynomial of degree 254.
const MaxDegree = 254

// ErrInvalidDegree is returned by Generate for a degree outside [0, MaxDegree].
var ErrInvalidDegree = errors.New("polynomial: invalid degree")

// Polynomial holds coefficients ordered from the constant term upward, so
// c0 + c1*x + c2*x^2 is stored as [c0, c1, c2].
type Polynomial struct {
	coefficients []byte
}

// New builds a polynomial from explicit coefficients, constant term first.
// The slice is copied.
func New(coefficients ...byte) *Polynomial {
	if len(coefficients) == 0 {
		coefficients = []byte{0}
	}
	c := make([]byte, len(coefficients))
	copy(c, coefficients)
	return &Polynomial{coefficients: c}
}

// Generate returns a polynomial of the given degree whose constant term is
// constant and whose remaining coefficients are drawn from src.
func Generate(constant byte, degree int, src random.Source) (*Polynomial, error) {
	if degree < 0 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}

	p := &Polynomial{coefficients: make([]byte, degree+1)}
	p.coefficients[0] = constant

	for i := 1; i <= degree; i++ {
		c, err := src.Element()
		if err != nil {
			p.Zero()
			return nil, fmt.Errorf("failed to draw coefficient %d: %w", i, err)
		}
		p.coefficients[i] = c
	}

	return p, nil
}

// Degree returns the number of coefficients minus one. Leading zero
// coefficients are counted, which matches how shares are generated.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Coefficient returns the coefficient of x^i, or zero past the degree.
func (p *Polynomial) Coefficient(i int) byte {
	if i < 0 || i >= len(p.coefficients) {
		return 0
	}
	return p.coefficients[i]
}

// Evaluate returns p(x) using Horner's method. The work done depends only on
// the degree, never on coefficient values.
func (p *Polynomial) Evaluate(x byte) byte {
	result := p.coefficients[len(p.coefficients)-1]
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = gf256.Add(gf256.Mul(result, x), p.coefficients[i])
	}
	return result
}

// Zero wipes the coefficients. The polynomial evaluates to zero afterwards.
func (p *Polynomial) Zero() {
	secure.Zero(p.coefficients)
}
