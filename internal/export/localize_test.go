package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	in := results()

	out := Localize(in, loc)
	require.Len(t, out, len(in))

	assert.True(t, out[1].Data.Time.Equal(time.Date(2025, 6, 1, 20, 45, 49, 0, time.UTC)))
	assert.Equal(t, time.UTC, out[1].Data.Time.Location())
	assert.Nil(t, out[2].Data)
	assert.Equal(t, in[1].Data.Latitude, out[1].Data.Latitude)

	// Input untouched.
	assert.True(t, in[1].Data.Time.Equal(time.Date(2025, 6, 1, 13, 45, 49, 0, time.UTC)))
}

func TestLocalizeUTC(t *testing.T) {
	in := results()
	out := Localize(in, time.UTC)
	for i := range in {
		if in[i].Data == nil {
			continue
		}
		assert.True(t, in[i].Data.Time.Equal(out[i].Data.Time))
	}
}
