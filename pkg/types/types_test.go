package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValueAndScan(t *testing.T) {
	list := StringList{"4K UHD", "4 screens"}
	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, `["4K UHD","4 screens"]`, value)

	var scanned StringList
	require.NoError(t, scanned.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	nilValue, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)

	assert.Error(t, scanned.Scan(42))
}

func TestJSONMapValueAndScan(t *testing.T) {
	m := JSONMap{"path": "/products"}
	value, err := m.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/products"}`, value.(string))

	var scanned JSONMap
	require.NoError(t, scanned.Scan(`{"query":"netflix","results":3}`))
	assert.Equal(t, "netflix", scanned.String("query"))
	assert.Equal(t, "", scanned.String("results"))
	assert.Equal(t, float64(3), scanned["results"])
}
