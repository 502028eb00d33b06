package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-03T00:00:00Z", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T09:15:00.250+05:30", time.Date(2025, 6, 3, 9, 15, 0, 250e6, ist)},
		{"2025-06-03T00:00:00.000+0530", time.Date(2025, 6, 3, 0, 0, 0, 0, ist)},
		{"2025-06-03T00:00Z", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T10:30+02:00", time.Date(2025, 6, 3, 8, 30, 0, 0, time.UTC)},
		{"2025-06-03T00:00:00", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T14:45", time.Date(2025, 6, 3, 14, 45, 0, 0, time.UTC)},
		{"2025-06-03", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)

			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "garbage", "2025-13-01", "06/03/2025", "2025-06-03T25:00"} {
		t.Run("Failed - "+bad, func(t *testing.T) {
			_, err := ParseTimestamp(bad)
			assert.Error(t, err)
		})
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var body struct {
			Start Timestamp  `json:"start"`
			End   *Timestamp `json:"end"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-06-02","end":"2025-06-02T17:00"}`), &body))

		assert.True(t, body.Start.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
		require.NotNil(t, body.End)
		assert.True(t, body.End.Equal(time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)))

		out, err := json.Marshal(body.Start)
		require.NoError(t, err)
		assert.JSONEq(t, `"2025-06-02T00:00:00Z"`, string(out))
	})

	t.Run("Null", func(t *testing.T) {
		var body struct {
			Start Timestamp  `json:"start"`
			End   *Timestamp `json:"end"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"start":null,"end":null}`), &body))

		assert.True(t, body.Start.IsZero())
		assert.Nil(t, body.End)
	})

	t.Run("Failed - Not A Date", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &ts))
		assert.Error(t, json.Unmarshal([]byte(`1717286400`), &ts))
	})
}
