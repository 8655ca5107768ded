package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgParser_Inline(t *testing.T) {
	var p ArgParser

	t.Run("Single pair", func(t *testing.T) {
		args, malformed := p.Parse("lang=rust")
		assert.Empty(t, malformed)
		assert.Equal(t, map[string]string{"lang": "rust"}, args)
	})

	t.Run("Multiple pairs", func(t *testing.T) {
		args, _ := p.Parse("lang=rust year=2022")
		assert.Equal(t, map[string]string{"lang": "rust", "year": "2022"}, args)
	})

	t.Run("Value containing equals sign", func(t *testing.T) {
		args, _ := p.Parse("lang=rust math=2+2=4")
		assert.Equal(t, map[string]string{"lang": "rust", "math": "2+2=4"}, args)
	})

	t.Run("Value containing whitespace", func(t *testing.T) {
		args, _ := p.Parse("lang=rust authors=Goudham & Hazel")
		assert.Equal(t, map[string]string{"lang": "rust", "authors": "Goudham & Hazel"}, args)
	})

	t.Run("Value boundary needs a real pair ahead", func(t *testing.T) {
		// " =x" does not look like a pair, so it belongs to the
		// previous value.
		args, _ := p.Parse("a=1 =x b=2")
		assert.Equal(t, map[string]string{"a": "1 =x", "b": "2"}, args)
	})

	t.Run("Leading token without equals reported", func(t *testing.T) {
		args, malformed := p.Parse("junk a=1")
		assert.Equal(t, []string{"junk"}, malformed)
		assert.Equal(t, map[string]string{"a": "1"}, args)
	})

	t.Run("Duplicate names last wins", func(t *testing.T) {
		args, _ := p.Parse("a=first a=second")
		assert.Equal(t, map[string]string{"a": "second"}, args)
	})

	t.Run("Empty input", func(t *testing.T) {
		args, malformed := p.Parse("")
		assert.Empty(t, args)
		assert.Empty(t, malformed)
	})
}

func TestArgParser_MultiLine(t *testing.T) {
	var p ArgParser

	t.Run("One pair per line", func(t *testing.T) {
		args, malformed := p.Parse("lang=rust\nauthors=Goudham & Hazel\nyear=2022\n")
		assert.Empty(t, malformed)
		assert.Equal(t, map[string]string{
			"lang":    "rust",
			"authors": "Goudham & Hazel",
			"year":    "2022",
		}, args)
	})

	t.Run("Indented lines are trimmed", func(t *testing.T) {
		args, _ := p.Parse("    lang=rust\n        authors=Goudham & Hazel\nyear=2022\n")
		assert.Equal(t, map[string]string{
			"lang":    "rust",
			"authors": "Goudham & Hazel",
			"year":    "2022",
		}, args)
	})

	t.Run("Split at first equals only", func(t *testing.T) {
		args, _ := p.Parse("math=2+2=4\n")
		assert.Equal(t, map[string]string{"math": "2+2=4"}, args)
	})

	t.Run("Line without equals reported and skipped", func(t *testing.T) {
		args, malformed := p.Parse("lang=rust\nnot a pair\nyear=2022\n")
		assert.Equal(t, []string{"not a pair"}, malformed)
		assert.Equal(t, map[string]string{"lang": "rust", "year": "2022"}, args)
	})

	t.Run("Blank lines skipped", func(t *testing.T) {
		args, malformed := p.Parse("\n\nlang=rust\n\n")
		assert.Empty(t, malformed)
		assert.Equal(t, map[string]string{"lang": "rust"}, args)
	})

	t.Run("Duplicate names last wins", func(t *testing.T) {
		args, _ := p.Parse("a=first\na=second\n")
		assert.Equal(t, map[string]string{"a": "second"}, args)
	})
}
