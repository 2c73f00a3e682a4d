package attribution

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FeeValue is a shipping-fee amount as it appears in storage. The same
// logical quantity has been written as a bare number, a numeric string, or a
// structured record with a "fee" field, depending on which code path created
// the order (checkout, backfill script, legacy import). Decoding any of those
// shapes yields a canonical non-negative amount; anything unparseable
// normalizes to zero instead of failing the whole computation.
type FeeValue struct {
	amount decimal.Decimal
	set    bool

	// VendorName is metadata carried by the structured record shape.
	VendorName string `json:"vendorName,omitempty"`
}

// feeRecord is the structured shape: {"fee": <number|string>, "vendorName": ...}.
type feeRecord struct {
	Fee        json.RawMessage `json:"fee"`
	VendorName string          `json:"vendorName"`
}

// FeeFromDecimal builds an explicitly-set fee value, clamping negatives to zero.
func FeeFromDecimal(d decimal.Decimal) FeeValue {
	if d.IsNegative() {
		d = decimal.Zero
	}
	return FeeValue{amount: d, set: true}
}

func (f *FeeValue) UnmarshalJSON(data []byte) error {
	*f = FeeValue{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '{' {
		var rec feeRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil
		}
		f.set = true
		f.VendorName = rec.VendorName
		f.amount = parseFeeScalar(rec.Fee)
		return nil
	}

	f.set = true
	f.amount = parseFeeScalar(trimmed)
	return nil
}

func (f FeeValue) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.amount)
}

// parseFeeScalar normalizes a number or numeric-string token to a
// non-negative decimal; malformed input yields zero.
func parseFeeScalar(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		return clampFee(s)
	}
	return clampFee(string(raw))
}

func clampFee(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Amount returns the canonical fee amount; unset values are zero.
func (f FeeValue) Amount() decimal.Decimal {
	if !f.set {
		return decimal.Zero
	}
	return f.amount
}

// IsSet reports whether a value was present at all. The shipping resolver
// uses this to distinguish an explicit zero fee from an absent entry.
func (f FeeValue) IsSet() bool {
	return f.set
}

// NormalizeFee decodes a raw stored fee column into its canonical amount.
func NormalizeFee(raw json.RawMessage) decimal.Decimal {
	var fv FeeValue
	// UnmarshalJSON never returns an error; malformed input becomes zero.
	_ = fv.UnmarshalJSON(raw)
	return fv.Amount()
}

// NormalizeFeeMap decodes a raw per-seller fee map, normalizing each entry.
// A column that is absent, null or malformed yields an empty map.
func NormalizeFeeMap(raw json.RawMessage) map[string]FeeValue {
	out := map[string]FeeValue{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]FeeValue{}
	}
	return out
}
