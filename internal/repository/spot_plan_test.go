package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGrid(t *testing.T) {
	t.Run("empty tenant gets full grid", func(t *testing.T) {
		create := PlanGrid(nil, 2, 3)
		require.Len(t, create, 6)

		labels := make([]string, len(create))
		for i, s := range create {
			labels[i] = s.Label()
			assert.Equal(t, StatusFree, s.Status)
			assert.Equal(t, 0, s.Sunbeds)
		}
		assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, labels)
	})

	t.Run("existing grid plans nothing", func(t *testing.T) {
		existing := PlanGrid(nil, 2, 3)
		assert.Empty(t, PlanGrid(existing, 2, 3))
	})

	t.Run("grow only plans the new positions", func(t *testing.T) {
		existing := []Spot{
			{Row: "A", Number: 1, Status: StatusOccupied, Sunbeds: 2},
			{Row: "A", Number: 2, Status: StatusReserved},
		}
		create := PlanGrid(existing, 2, 2)
		require.Len(t, create, 2)
		assert.Equal(t, "B1", create[0].Label())
		assert.Equal(t, "B2", create[1].Label())
	})

	t.Run("out-of-bounds spots are not recreated", func(t *testing.T) {
		// shrink from 2x3 to 1x2: plan must not touch existing A1/A2
		existing := PlanGrid(nil, 2, 3)
		assert.Empty(t, PlanGrid(existing, 1, 2))
	})
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "F", RowLabel(5))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "", RowLabel(26))
	assert.Equal(t, "", RowLabel(-1))
}

func TestClampSunbeds(t *testing.T) {
	cases := []struct{ in, want int }{
		{-3, 0}, {-1, 0}, {0, 0}, {1, 1}, {2, 2}, {3, 2}, {5, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampSunbeds(tc.in), "clamp(%d)", tc.in)
	}
}

func TestParseSpotLabel(t *testing.T) {
	row, n, ok := ParseSpotLabel("A12")
	require.True(t, ok)
	assert.Equal(t, "A", row)
	assert.Equal(t, uint32(12), n)

	row, n, ok = ParseSpotLabel("f3")
	require.True(t, ok)
	assert.Equal(t, "F", row)
	assert.Equal(t, uint32(3), n)

	for _, bad := range []string{"", "A", "7", "AA1", "A0", "Ax", "1A"} {
		_, _, ok := ParseSpotLabel(bad)
		assert.False(t, ok, "label %q should not parse", bad)
	}
}

func TestSpotLabelRoundTrip(t *testing.T) {
	s := Spot{Row: "C", Number: 7}
	row, n, ok := ParseSpotLabel(s.Label())
	require.True(t, ok)
	assert.Equal(t, s.Row, row)
	assert.Equal(t, s.Number, n)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusFree))
	assert.True(t, ValidStatus(StatusOccupied))
	assert.True(t, ValidStatus(StatusReserved))
	assert.False(t, ValidStatus("held"))
	assert.False(t, ValidStatus(""))
}
