package reads

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry_Shapes(t *testing.T) {
	e, err := ParseEntry(0, "np1.fastq")
	require.NoError(t, err)
	assert.Equal(t, KindSingle, e.Kind())
	assert.Equal(t, "np1.fastq", e.Path())
	assert.Empty(t, e.Mate())

	e, err = ParseEntry(1, []any{"p1_1.fastq", "p1_2.fastq"})
	require.NoError(t, err)
	assert.Equal(t, KindPair, e.Kind())
	assert.Equal(t, []string{"p1_1.fastq", "p1_2.fastq"}, e.Paths())

	e, err = ParseEntry(2, []string{"a.fastq", "b.fastq"})
	require.NoError(t, err)
	assert.Equal(t, "b.fastq", e.Mate())
}

func TestParseEntry_ThreeItemSequence(t *testing.T) {
	_, err := ParseEntry(3, []any{"one.fastq", "two.fastq", "three.fastq"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedEntry)
	assert.False(t, errors.Is(err, ErrInvalidReadFile))

	var shapeErr *EntryShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 3, shapeErr.Index)
	assert.Equal(t, 3, shapeErr.Len)
}

func TestParseEntry_Unsupported(t *testing.T) {
	_, err := ParseEntry(0, 42)
	assert.ErrorIs(t, err, ErrMalformedEntry)

	_, err = ParseEntry(0, []any{"a.fastq", 7})
	assert.ErrorIs(t, err, ErrMalformedEntry)

	_, err = ParseEntry(0, []any{"a.fastq"})
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestEntry_Validate(t *testing.T) {
	assert.NoError(t, Single("reads.fastq").Validate())
	assert.NoError(t, Single("READS.FASTQ").Validate())
	assert.NoError(t, Pair("a.fastq", "b.fastq").Validate())

	for _, bad := range []string{"np.sff", "np.ab1", "np.fastq.gz", "np"} {
		err := Single(bad).Validate()
		assert.ErrorIs(t, err, ErrInvalidReadFile, bad)
	}

	err := Pair("a.fastq", "b.sff").Validate()
	var invalid *InvalidReadFileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "b.sff", invalid.Path)
	assert.Equal(t, ".sff", invalid.Ext)
}

func TestClassify_FirstOffenderWins(t *testing.T) {
	_, err := Classify([]any{"np.sff", []any{"a", "b", "c"}})
	assert.ErrorIs(t, err, ErrInvalidReadFile)

	_, err = Classify([]any{[]any{"a.fastq", "b.fastq", "c.fastq"}, "np.sff"})
	assert.ErrorIs(t, err, ErrMalformedEntry)
	assert.NotErrorIs(t, err, ErrInvalidReadFile)
}
