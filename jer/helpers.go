package jer

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"asn1tool.dev/asn1/model"
)

func oidString(arcs []uint) string {
	parts := make([]string, len(arcs))
	for i, a := range arcs {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, ".")
}

func parseOID(s string) ([]uint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	arcs := make([]uint, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("jer: invalid OID arc %q: %w", p, err)
		}
		arcs[i] = uint(n)
	}
	return arcs, nil
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func jsonToBigInt(raw interface{}) *big.Int {
	switch n := raw.(type) {
	case float64:
		return big.NewInt(int64(n))
	case string:
		v, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return big.NewInt(0)
		}
		return v
	default:
		return big.NewInt(0)
	}
}

func bigFromInt64(i int64) *big.Int { return big.NewInt(i) }

// realToFloat/floatToReal are lossy (X.697 allows encoding REAL as a JSON
// number, at the cost of float64's precision instead of model.Real's
// arbitrary-precision mantissa) — acceptable for a non-core, developer-
// facing adapter.
func realToFloat(r model.Real) float64 {
	if r.Mantissa == nil {
		return 0
	}
	base := 2.0
	if r.Base == 10 {
		base = 10.0
	}
	mant, _ := new(big.Float).SetInt(r.Mantissa).Float64()
	return mant * math.Pow(base, float64(r.Exponent))
}

func floatToReal(f float64) model.Real {
	if f == 0 {
		return model.Real{Mantissa: big.NewInt(0)}
	}
	frac, exp := math.Frexp(f)
	mant := int64(frac * (1 << 53))
	return model.Real{Mantissa: big.NewInt(mant), Base: 2, Exponent: exp - 53}
}
