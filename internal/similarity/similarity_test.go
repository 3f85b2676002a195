package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Identical(t *testing.T) {
	assert.Equal(t, 100, Score("Joe's Pizza", "Joe's Pizza"))
}

func TestScore_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, 100, Score("JOE'S   PIZZA", "joe's pizza"))
}

func TestScore_TokenReorder(t *testing.T) {
	assert.Equal(t, 100, Score("Pizza Joe's", "Joe's Pizza"))
}

func TestScore_Symmetric(t *testing.T) {
	assert.Equal(t, Score("Joes Pizza", "Joe's Pizza"), Score("Joe's Pizza", "Joes Pizza"))
}

func TestScore_BothEmpty(t *testing.T) {
	assert.Equal(t, 100, Score("", ""))
}

func TestScore_EmptyVsNonEmpty(t *testing.T) {
	assert.Less(t, Score("", "Joe's Pizza"), 85)
	assert.Less(t, Score("Joe's Pizza", ""), 85)
}

func TestScore_NearMatches(t *testing.T) {
	assert.Greater(t, Score("Joe's Pizza", "Joes Pizza"), 85)
	assert.Greater(t, Score("123 Main St", "123 Main Street"), 85)
}

func TestScore_Unrelated(t *testing.T) {
	assert.Less(t, Score("Joe's Pizza", "Acme Plumbing Supply"), 50)
}

func TestScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"a", "b"},
		{"Joe's Pizza", "Joes Pizza"},
		{"completely different", "strings here"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}
