package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"schema fields", "temp,IEEE4B,rh,IEEE4B", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.id == 0 {
				assert.NotZero(t, ID(tt.data))
				return
			}
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestID_DeterministicAndSensitiveToInput(t *testing.T) {
	assert.Equal(t, ID("a,b"), ID("a,b"))
	assert.NotEqual(t, ID("a,b"), ID("a,c"))
}
