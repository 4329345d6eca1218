package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const signatureField = "signature"

// Sign computes the provider signature for payload: values ordered by key,
// joined with "|", HMAC-SHA256 keyed by secret, lower-case hex. Nil values
// contribute an empty segment.
func Sign(secret string, payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, stringify(payload[k]))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over payload without its signature field
// and compares in constant time. Malformed hex is a mismatch.
func Verify(secret string, payload map[string]any, signature string) bool {
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(given) == 0 {
		return false
	}
	unsigned := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == signatureField {
			continue
		}
		unsigned[k] = v
	}
	expected, err := hex.DecodeString(Sign(secret, unsigned))
	if err != nil {
		return false
	}
	return hmac.Equal(given, expected)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case decimal.Decimal:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
