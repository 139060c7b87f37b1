package tsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseField(t *testing.T) {
	values := map[string]interface{}{
		fieldCpu:    "300",
		fieldMemory: "400",
		fieldNetRx:  "not-a-number",
	}

	assert.Equal(t, uint64(300), parseField(values, fieldCpu))
	assert.Equal(t, uint64(400), parseField(values, fieldMemory))
	// malformed or missing fields degrade to zero instead of failing the read
	assert.Zero(t, parseField(values, fieldNetRx))
	assert.Zero(t, parseField(values, fieldNetTx))
}
