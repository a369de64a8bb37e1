package xer

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"asn1tool.dev/asn1/model"
)

// oidStringXER/parseOIDXER, hexDecodeXER, parseBigInt/bigFromInt64XER and
// realToFloatXER duplicate asn1/jer's equivalents: both packages are thin,
// independent external collaborators with no shared internal package to
// hang common dotted-OID/hex/REAL text conversions off of.

func oidStringXER(arcs []uint) string {
	parts := make([]string, len(arcs))
	for i, a := range arcs {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, ".")
}

func parseOIDXER(s string) ([]uint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	arcs := make([]uint, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("xer: invalid OID arc %q: %w", p, err)
		}
		arcs[i] = uint(n)
	}
	return arcs, nil
}

func hexDecodeXER(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func parseBigInt(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}

func bigFromInt64XER(i int64) *big.Int { return big.NewInt(i) }

func realToFloatXER(r model.Real) float64 {
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
