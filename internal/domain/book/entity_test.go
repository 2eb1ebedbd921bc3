package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

func TestNormalizeGenreIDs(t *testing.T) {
	t.Run("排序后返回副本", func(t *testing.T) {
		in := []string{"g3", "g1", "g2"}
		out, err := NormalizeGenreIDs(in)

		require.NoError(t, err)
		assert.Equal(t, []string{"g1", "g2", "g3"}, out)
		assert.Equal(t, []string{"g3", "g1", "g2"}, in, "不修改入参")
	})

	t.Run("空集合合法", func(t *testing.T) {
		out, err := NormalizeGenreIDs(nil)

		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("重复元素拒绝", func(t *testing.T) {
		_, err := NormalizeGenreIDs([]string{"g1", "g1"})

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, apperrors.GetAppError(err).Fields, "genre")
	})

	t.Run("空白元素拒绝", func(t *testing.T) {
		_, err := NormalizeGenreIDs([]string{"g1", ""})

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestBook_Replace(t *testing.T) {
	b := NewBook("Dune", "a1", "spice", "978", []string{"g1", "g2"})
	b.ID = "b1"

	b.Replace(&Book{Title: "Dune Messiah", AuthorID: "a2", Summary: "more spice", ISBN: "979"})

	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "a2", b.AuthorID)
	assert.Empty(t, b.GenreIDs, "未提供的类别重置为空")
	assert.False(t, b.HasGenre("g1"))
}

func TestGenresMissing(t *testing.T) {
	err := GenresMissing([]string{"x", "y"})

	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, apperrors.GetAppError(err).Fields["genre"], "x, y")
}
