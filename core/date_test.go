package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-01", want: "2024-03-01"},
		{in: " 2024-03-01 ", want: "2024-03-01"},
		{in: "2024-03-01T23:30:00Z", want: "2024-03-01"},
		{in: "2024-03-01T23:30:00+02:00", want: "2024-03-01"},
		{in: "", wantErr: true},
		{in: "01/03/2024", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidDate, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type doc struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(doc{Date: NewDate(2024, time.March, 1)})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"date": "2024-03-01"}`, string(data))

	data, err = json.Marshal(doc{})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"date": null}`, string(data))

	var d doc
	assert.NoError(t, json.Unmarshal([]byte(`{"date": "2024-03-01T10:00:00Z"}`), &d))
	assert.True(t, d.Date.Equal(NewDate(2024, time.March, 1)))

	assert.NoError(t, json.Unmarshal([]byte(`{"date": null}`), &d))
	assert.True(t, d.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date": "lol"}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"date": 20240301}`), &d))
}

func TestDate_Before(t *testing.T) {
	d1 := NewDate(2024, time.March, 1)
	d2 := DateOf(time.Date(2024, time.March, 2, 23, 59, 0, 0, time.UTC))
	assert.True(t, d1.Before(d2))
	assert.False(t, d2.Before(d1))
	assert.Equal(t, "", Date{}.String())
}
