package fuzzy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/agnivade/levenshtein"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		a, b string
		want int
	}{
		"both empty":          {a: "", b: "", want: 0},
		"one deletion":        {a: "a", b: "", want: 1},
		"one insertion":       {a: "", b: "a", want: 1},
		"kitten":              {a: "kitten", b: "sitting", want: 3},
		"saturday":            {a: "saturday", b: "sunday", want: 3},
		"two substitutions":   {a: "book", b: "back", want: 2},
		"trailing insertion":  {a: "book", b: "books", want: 1},
		"one substitution":    {a: "hello", b: "hallo", want: 1},
		"first letter":        {a: "help", b: "yelp", want: 1},
		"case is significant": {a: "Help", b: "help", want: 1},
		"multibyte rune":      {a: "héllo", b: "hello", want: 1},
		"reversed":            {a: "abc", b: "cba", want: 2},
	} {
		t.Run(uc, func(t *testing.T) {
			assert.Equal(t, tc.want, Distance(tc.a, tc.b))
			assert.Equal(t, tc.want, Distance(tc.b, tc.a), "distance must be symmetric")
		})
	}
}

func TestBoundedDistance(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		a, b   string
		limit  int
		want   int
		within bool
	}{
		"at the limit":           {a: "kitten", b: "sitting", limit: 3, want: 3, within: true},
		"below the limit":        {a: "kitten", b: "sitting", limit: 5, want: 3, within: true},
		"unbounded":              {a: "kitten", b: "sitting", limit: -1, want: 3, within: true},
		"max int limit":          {a: "kitten", b: "sitting", limit: math.MaxInt, want: 3, within: true},
		"identical":              {a: "same", b: "same", limit: 0, want: 0, within: true},
		"length gap over limit":  {a: "a", b: "abcdef", limit: 2, want: 5, within: false},
		"empty side over limit":  {a: "", b: "abc", limit: 2, want: 3, within: false},
		"row minimum over limit": {a: "abcdef", b: "uvwxyz", limit: 2, want: 3, within: false},
	} {
		t.Run(uc, func(t *testing.T) {
			got, ok := BoundedDistance(tc.a, tc.b, tc.limit)
			require.Equal(t, tc.within, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

// an abandoned computation must still report a real lower bound above the limit
func TestBoundedDistanceAgainstReference(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcdeé")

	for i := 0; i < 2000; i++ {
		a := randomWord(rng, alphabet, 8)
		b := randomWord(rng, alphabet, 8)
		limit := rng.Intn(5)
		want := levenshtein.ComputeDistance(a, b)

		require.Equal(t, want, Distance(a, b), "Distance(%q, %q)", a, b)

		got, ok := BoundedDistance(a, b, limit)
		if want <= limit {
			require.True(t, ok, "BoundedDistance(%q, %q, %d)", a, b, limit)
			require.Equal(t, want, got)
			continue
		}
		require.False(t, ok, "BoundedDistance(%q, %q, %d) reported within, real distance %d", a, b, limit, want)
		require.Greater(t, got, limit)
		require.LessOrEqual(t, got, want)
	}
}

func randomWord(rng *rand.Rand, alphabet []rune, maxLen int) string {
	n := rng.Intn(maxLen + 1)
	out := make([]rune, n)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(out)
}

func BenchmarkBoundedDistance(b *testing.B) {
	inputs := [][2]string{
		{"configure", "configuer"},
		{"spawn_entity", "spawn_entities"},
		{"teleport", "quit"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in := inputs[i%len(inputs)]
		BoundedDistance(in[0], in[1], 2)
	}
}
