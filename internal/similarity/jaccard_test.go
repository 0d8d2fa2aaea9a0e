package similarity

import (
	"math"
	"testing"
)

func TestJaccard_Identity(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"olá",
		"qual é seu livro favorito",
		"Mixed CASE tokens here",
	}
	for _, s := range inputs {
		if got := Jaccard(s, s); got != 1.0 {
			t.Errorf("Jaccard(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestJaccard_Symmetry(t *testing.T) {
	t.Parallel()
	pairs := [][2]string{
		{"qual livro você gosta", "qual é seu livro favorito"},
		{"bom dia", "boa tarde"},
		{"", "alguma coisa"},
	}
	for _, p := range pairs {
		if Jaccard(p[0], p[1]) != Jaccard(p[1], p[0]) {
			t.Errorf("Jaccard not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestJaccard_BothEmpty(t *testing.T) {
	t.Parallel()
	// Must be defined (no division by zero) and maximally dissimilar.
	if got := Jaccard("", ""); got != 0 {
		t.Errorf("Jaccard(\"\", \"\") = %v, want 0", got)
	}
	if got := Jaccard("   ", "\t\n"); got != 0 {
		t.Errorf("Jaccard(whitespace, whitespace) = %v, want 0", got)
	}
}

func TestJaccard_KnownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{
			name: "disjoint",
			a:    "um dois três",
			b:    "quatro cinco",
			want: 0,
		},
		{
			name: "half overlap",
			a:    "a b",
			b:    "b c",
			want: 1.0 / 3.0,
		},
		{
			name: "case insensitive",
			a:    "Livro FAVORITO",
			b:    "livro favorito",
			want: 1.0,
		},
		{
			name: "repeated tokens collapse",
			a:    "sim sim sim",
			b:    "sim",
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaccard_Bounded(t *testing.T) {
	t.Parallel()
	got := Jaccard("qual livro você gosta", "qual é seu livro favorito")
	if got <= 0 || got >= 1 {
		t.Errorf("expected partial overlap strictly inside (0,1), got %v", got)
	}
}
