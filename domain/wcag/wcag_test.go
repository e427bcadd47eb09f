package wcag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetLevel(t *testing.T) {
	cases := []struct {
		standard string
		want     Level
	}{
		{"WCAG 2.1 AA", LevelAA},
		{"WCAG 2.1 AAA", LevelAAA},
		{"WCAG 2.1 A", LevelA},
		{"WCAG 2.2 Level AA", LevelAA},
		{"", LevelA},
		{"EN 301 549", LevelA},
	}
	for _, c := range cases {
		t.Run(c.standard, func(t *testing.T) {
			assert.Equal(t, c.want, ParseTargetLevel(c.standard))
		})
	}
}

func TestCovers(t *testing.T) {
	assert.True(t, LevelA.Covers(LevelAA))
	assert.True(t, LevelAA.Covers(LevelAA))
	assert.False(t, LevelAAA.Covers(LevelAA))
	assert.True(t, LevelAAA.Covers(LevelAAA))
}

func TestCatalog(t *testing.T) {
	t.Run("level counts match WCAG 2.1", func(t *testing.T) {
		assert.Len(t, OfLevel(LevelA), 30)
		assert.Len(t, OfLevel(LevelAA), 20)
		assert.Len(t, OfLevel(LevelAAA), 28)
		assert.Len(t, Catalog, 78)
	})

	t.Run("AtOrBelow respects the target", func(t *testing.T) {
		assert.Len(t, AtOrBelow(LevelA), 30)
		assert.Len(t, AtOrBelow(LevelAA), 50)
		assert.Len(t, AtOrBelow(LevelAAA), 78)
	})

	t.Run("every criterion has a known principle", func(t *testing.T) {
		known := map[Principle]bool{Perceivable: true, Operable: true, Understandable: true, Robust: true}
		for _, c := range Catalog {
			assert.True(t, known[c.Principle], "criterion %s has principle %q", c.ID, c.Principle)
		}
	})

	t.Run("ByID finds well-known criteria", func(t *testing.T) {
		c, ok := ByID("1.1.1")
		require.True(t, ok)
		assert.Equal(t, LevelA, c.Level)
		assert.Equal(t, Perceivable, c.Principle)

		c, ok = ByID("1.4.3")
		require.True(t, ok)
		assert.Equal(t, LevelAA, c.Level)

		_, ok = ByID("9.9.9")
		assert.False(t, ok)
	})
}
