package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"review/a.png", "review/b.jpg"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["review/a.png","review/b.jpg"]`, v)
}

func TestStringListScan(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan([]byte(`["product/1.png"]`)))
	assert.Equal(t, StringList{"product/1.png"}, list)

	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)

	require.NoError(t, list.Scan("  "))
	assert.Empty(t, list)

	assert.Error(t, list.Scan(42))
	assert.Error(t, list.Scan("{not json"))
}

func TestStringListMarshalNeverNull(t *testing.T) {
	buf, err := json.Marshal(struct {
		Image StringList `json:"image"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"image":[]}`, string(buf))
}
