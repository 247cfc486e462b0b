package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string form", input: `"3s"`, expected: 3 * time.Second},
		{name: "compound string", input: `"1m30s"`, expected: 90 * time.Second},
		{name: "integer nanoseconds", input: `5000000000`, expected: 5 * time.Second},
		{name: "invalid string", input: `"abc"`, wantErr: true},
		{name: "invalid type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON_RoundTrip(t *testing.T) {
	d := Duration{Duration: 3 * time.Second}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"3s"`, string(data))

	var back Duration
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d.Duration, back.Duration)
}
