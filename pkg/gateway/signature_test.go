package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignOrdersByKey(t *testing.T) {
	payload := map[string]any{"b": "2", "a": "1", "c": json.Number("3.5")}

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("1|2|3.5"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, Sign("secret", payload))
}

func TestSignNilValuesKeepTheirSlot(t *testing.T) {
	withNil := map[string]any{"a": "1", "b": nil, "c": "3"}
	without := map[string]any{"a": "1", "c": "3"}
	assert.NotEqual(t, Sign("k", withNil), Sign("k", without))

	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("1||3"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), Sign("k", withNil))
}

func TestVerify(t *testing.T) {
	payload := map[string]any{"order_id": "MTS1", "status": "completed", "amount": float64(499)}
	sig := Sign("k", payload)

	t.Run("valid", func(t *testing.T) {
		assert.True(t, Verify("k", payload, sig))
	})
	t.Run("signature field ignored", func(t *testing.T) {
		withSig := map[string]any{"order_id": "MTS1", "status": "completed", "amount": float64(499), "signature": sig}
		assert.True(t, Verify("k", withSig, sig))
	})
	t.Run("tampered", func(t *testing.T) {
		tampered := map[string]any{"order_id": "MTS1", "status": "failed", "amount": float64(499)}
		assert.False(t, Verify("k", tampered, sig))
	})
	t.Run("malformed hex", func(t *testing.T) {
		assert.False(t, Verify("k", payload, "zz-not-hex"))
		assert.False(t, Verify("k", payload, ""))
	})
	t.Run("truncated", func(t *testing.T) {
		assert.False(t, Verify("k", payload, sig[:10]))
	})
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "499", stringify(float64(499)))
	assert.Equal(t, "499.5", stringify(499.5))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, `{"k":"v"}`, stringify(map[string]any{"k": "v"}))
}
