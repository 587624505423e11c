package lottery

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-06-04", want: Date{2024, time.June, 4}},
		{in: " 2024-06-04 ", want: Date{2024, time.June, 4}},
		{in: "2024-06-04T00:00:00.000Z", want: Date{2024, time.June, 4}},
		{in: "2024-06-04 18:00:00", want: Date{2024, time.June, 4}},
		{in: "2024-02-29", want: Date{2024, time.February, 29}},
		{in: "2023-02-29", wantErr: true},
		{in: "2024-00-10", wantErr: true},
		{in: "2024-06-31", wantErr: true},
		{in: "24-06-04", wantErr: true},
		{in: "2024/06/04", wantErr: true},
		{in: "2024-06", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDate(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2023-12-31", NewDate(2024, time.January, 1).AddDays(-1).String())
	assert.Equal(t, time.Tuesday, NewDate(2024, time.June, 4).Weekday())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.False(t, d.Before(d))
}

func TestDateOf_KeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2024, time.June, 4, 22, 0, 0, 0, loc)
	assert.Equal(t, Date{2024, time.June, 4}, DateOf(at))
	assert.Equal(t, Date{2024, time.June, 5}, DateOf(at.UTC()))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: NewDate(2024, time.June, 4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-04"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-06"}`), &p))
	assert.Equal(t, NewDate(2024, time.June, 6), p.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"06/06/2024"}`), &p))

	b, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":null}`, string(b))
}
