package runtime

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an exact base-10 number: unscaled * 10^-scale. The scale is
// never negative. Arithmetic follows java.math.BigDecimal so generated Java
// and interpreted programs agree.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// ParseDecimal reads an optionally signed literal such as "-12.50". The
// number of fraction digits becomes the scale.
func ParseDecimal(text string) (Decimal, error) {
	digits := text
	sign := ""
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		sign, digits = digits[:1], digits[1:]
	}
	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" && frac == "" {
		return Decimal{}, fmt.Errorf("invalid decimal %q", text)
	}
	unscaled, ok := new(big.Int).SetString(sign+whole+frac, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("invalid decimal %q", text)
	}
	return Decimal{unscaled: unscaled, scale: len(frac)}, nil
}

func (d Decimal) Unscaled() *big.Int {
	if d.unscaled == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.unscaled)
}

func (d Decimal) Sign() int {
	if d.unscaled == nil {
		return 0
	}
	return d.unscaled.Sign()
}

func (d Decimal) IsZero() bool { return d.Sign() == 0 }

// Add returns d + o at the larger of the two scales.
func (d Decimal) Add(o Decimal) Decimal {
	a, b, scale := align(d, o)
	return Decimal{unscaled: a.Add(a, b), scale: scale}
}

// Sub returns d - o at the larger of the two scales.
func (d Decimal) Sub(o Decimal) Decimal {
	a, b, scale := align(d, o)
	return Decimal{unscaled: a.Sub(a, b), scale: scale}
}

// Mul returns d * o; the scales add.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{unscaled: new(big.Int).Mul(d.Unscaled(), o.Unscaled()), scale: d.scale + o.scale}
}

// Quo returns d / o rounded half-to-even at d's scale. The divisor must be
// non-zero.
func (d Decimal) Quo(o Decimal) Decimal {
	// d/o * 10^d.scale == d.unscaled * 10^o.scale / o.unscaled
	num := new(big.Int).Mul(d.Unscaled(), pow10(o.scale))
	den := o.Unscaled()
	return Decimal{unscaled: quoHalfEven(num, den), scale: d.scale}
}

// Cmp compares numeric values, ignoring scale: 1.0 and 1.00 are equal.
func (d Decimal) Cmp(o Decimal) int {
	a, b, _ := align(d, o)
	return a.Cmp(b)
}

// String renders plain notation with exactly scale fraction digits.
func (d Decimal) String() string {
	digits := new(big.Int).Abs(d.Unscaled()).String()
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
	}
	if d.scale == 0 {
		return sign + digits
	}
	if len(digits) <= d.scale {
		digits = strings.Repeat("0", d.scale-len(digits)+1) + digits
	}
	point := len(digits) - d.scale
	return sign + digits[:point] + "." + digits[point:]
}

func align(a, b Decimal) (*big.Int, *big.Int, int) {
	x, y := a.Unscaled(), b.Unscaled()
	switch {
	case a.scale < b.scale:
		x.Mul(x, pow10(b.scale-a.scale))
		return x, y, b.scale
	case b.scale < a.scale:
		y.Mul(y, pow10(a.scale-b.scale))
		return x, y, a.scale
	}
	return x, y, a.scale
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// quoHalfEven divides num by den, rounding ties to the even neighbour.
func quoHalfEven(num, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() == 0 {
		return q
	}
	twice := new(big.Int).Abs(r)
	twice.Lsh(twice, 1)
	cmp := twice.Cmp(new(big.Int).Abs(den))
	if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
		if num.Sign()*den.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q
}
