package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	params := Normalize(0, 0)

	require.Equal(t, 1, params.Page)
	require.Equal(t, DefaultLimit, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestNormalizeClampsLimit(t *testing.T) {
	params := Normalize(2, 500)

	require.Equal(t, 2, params.Page)
	require.Equal(t, MaxLimit, params.Limit)
	require.Equal(t, MaxLimit, params.Offset)
}

func TestNormalizeOffset(t *testing.T) {
	params := Normalize(3, 25)

	require.Equal(t, 50, params.Offset)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 35)

	require.Equal(t, int64(35), meta.Total)
	require.Equal(t, 4, meta.TotalPages)
	require.True(t, meta.HasNext)
	require.True(t, meta.HasPrev)
}

func TestGetMetaLastPage(t *testing.T) {
	meta := GetMeta(&Params{Page: 4, Limit: 10}, 35)

	require.False(t, meta.HasNext)
	require.True(t, meta.HasPrev)
}

func TestGetMetaEmpty(t *testing.T) {
	meta := GetMeta(&Params{Page: 1, Limit: 10}, 0)

	require.Equal(t, 0, meta.TotalPages)
	require.False(t, meta.HasNext)
	require.False(t, meta.HasPrev)
}
