package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExact_PassAndFail(t *testing.T) {
	assert.Empty(t, Exact(
		[]string{"a", "b"}, []string{"a", "b"}))
	assert.NotEmpty(t, Exact(
		[]string{"a", "b", "c"}, []string{"a", "b"}))
}

func TestContains_FindsContiguousRun(t *testing.T) {
	actual := []string{"x", "a", "b", "y"}

	assert.True(t, Contains(actual, []string{"a", "b"}))
	assert.True(t, Contains(actual, []string{"x"}))
	assert.True(t, Contains(actual, []string{"y"}))
}

func TestContains_RejectsScatteredLines(t *testing.T) {
	actual := []string{"a", "x", "b"}

	assert.False(t, Contains(actual, []string{"a", "b"}))
}

func TestContains_EmptyExpectedAlwaysPasses(t *testing.T) {
	assert.True(t, Contains([]string{"a"}, nil))
	assert.True(t, Contains(nil, nil))
}

func TestContains_ExpectedLongerThanActual(t *testing.T) {
	assert.False(t, Contains(
		[]string{"a"}, []string{"a", "b"}))
}

func TestCount_OverlappingWindows(t *testing.T) {
	actual := []string{"a", "a", "a"}

	assert.Equal(t, 2, Count(actual, []string{"a", "a"}))
	assert.Equal(t, 3, Count(actual, []string{"a"}))
	assert.Equal(t, 1, Count(actual,
		[]string{"a", "a", "a"}))
}

func TestCount_WildcardLinesCount(t *testing.T) {
	actual := []string{"one", "two", "three"}

	assert.Equal(t, 3, Count(actual, []string{"[..]"}))
	assert.Equal(t, 1, Count(actual, []string{"t[..]o"}))
}

func TestCount_ZeroWhenAbsent(t *testing.T) {
	assert.Equal(t, 0, Count(
		[]string{"a", "b"}, []string{"c"}))
}

func TestNotContains_NegatesContains(t *testing.T) {
	actual := []string{"x", "a", "b", "y"}

	assert.False(t, NotContains(actual, []string{"a", "b"}))
	assert.True(t, NotContains(actual, []string{"b", "a"}))
}

func TestUnordered_PermutationPasses(t *testing.T) {
	assert.Nil(t, Unordered(
		[]string{"e2", "e1"}, []string{"e1", "e2"}))
	assert.Nil(t, Unordered(
		[]string{"a", "b", "c"}, []string{"c", "a", "b"}))
}

func TestUnordered_ExtraActualFails(t *testing.T) {
	m := Unordered(
		[]string{"e2", "e1", "extra"},
		[]string{"e1", "e2"},
	)

	require.NotNil(t, m)
	assert.Empty(t, m.MissingExpected)
	assert.Equal(t, []string{"extra"}, m.ExtraActual)
}

func TestUnordered_MissingExpectedFails(t *testing.T) {
	m := Unordered(
		[]string{"e1"}, []string{"e1", "e2"})

	require.NotNil(t, m)
	assert.Equal(t, "e2", m.MissingExpected)
	assert.Empty(t, m.Remaining)
}

func TestUnordered_ReportsRemainingPool(t *testing.T) {
	m := Unordered(
		[]string{"a", "b"}, []string{"a", "c"})

	require.NotNil(t, m)
	assert.Equal(t, "c", m.MissingExpected)
	assert.Equal(t, []string{"b"}, m.Remaining)
}

func TestUnordered_WildcardConsumesFirstMatch(t *testing.T) {
	// [..] takes the first pool line, leaving "b" for the
	// second expected line
	assert.Nil(t, Unordered(
		[]string{"a", "b"}, []string{"[..]", "b"}))

	// here the wildcard consumes "b" first, so "b" cannot be
	// satisfied afterwards
	m := Unordered([]string{"b", "a"}, []string{"[..]", "b"})
	require.NotNil(t, m)
	assert.Equal(t, "b", m.MissingExpected)
	assert.Equal(t, []string{"a"}, m.Remaining)
}

func TestUnordered_EmptyBothSidesPasses(t *testing.T) {
	assert.Nil(t, Unordered(nil, nil))
}
