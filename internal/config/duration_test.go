package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "milliseconds", input: "30000", expected: 30 * time.Second},
		{name: "go duration", input: "1m30s", expected: 90 * time.Second},
		{name: "spaces trimmed", input: " 500 ", expected: 500 * time.Millisecond},
		{name: "empty", input: "", expected: 0},
		{name: "garbage", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Std())
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 5000, "b": "2s"}`), &v))
	assert.Equal(t, 5*time.Second, v.A.Std())
	assert.Equal(t, 2*time.Second, v.B.Std())

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 10000\nb: 3s\n"), &v))
	assert.Equal(t, 10*time.Second, v.A.Std())
	assert.Equal(t, 3*time.Second, v.B.Std())
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(1500 * time.Millisecond))
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(b))
}
