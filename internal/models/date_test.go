package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2010-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2010-05-01", d.String())

	_, err = ParseDate("01/05/2010")
	assert.Error(t, err)
	_, err = ParseDate("2023-02-30")
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2005, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2005-03-15", d.String())

	require.NoError(t, d.Scan("2004-07-22"))
	assert.Equal(t, "2004-07-22", d.String())

	require.NoError(t, d.Scan([]byte("2004-07-22T00:00:00Z")))
	assert.Equal(t, "2004-07-22", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2010, time.May, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2010-05-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDateJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Birth Date `json:"birth"`
	}{Birth: NewDate(2010, time.May, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"birth":"2010-05-01"}`, string(payload))

	var decoded struct {
		Birth Date `json:"birth"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"birth":"2011-12-31"}`), &decoded))
	assert.Equal(t, "2011-12-31", decoded.Birth.String())

	require.NoError(t, json.Unmarshal([]byte(`{"birth":null}`), &decoded))
	assert.True(t, decoded.Birth.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"birth":"31/12/2011"}`), &decoded))
}
