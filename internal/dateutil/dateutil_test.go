package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesterday_FixedInstant(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, IST)

	y := Yesterday(now)

	assert.Equal(t, 2024, y.Year())
	assert.Equal(t, time.March, y.Month())
	assert.Equal(t, 14, y.Day())
}

func TestYesterday_CrossesMonthBoundaryInIST(t *testing.T) {
	// 2024-03-01 01:30 IST is still 2024-02-29 20:00 UTC. Yesterday must be
	// computed on the IST civil date, not the UTC one.
	now := time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC)

	y := Yesterday(now)

	assert.Equal(t, time.February, y.Month())
	assert.Equal(t, 29, y.Day())
}

func TestRenderings_AllFourFormats(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, IST)

	got := Renderings(Yesterday(now))

	require.Len(t, got, 4)
	assert.Equal(t, []string{"2024-03-14", "14-Mar-2024", "14/03/2024", "14-03-2024"}, got)
}

func TestIST_Offset(t *testing.T) {
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, IST).Zone()
	assert.Equal(t, 5*3600+1800, offset)
}
