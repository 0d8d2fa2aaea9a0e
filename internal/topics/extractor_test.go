package topics

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()
	ex := NewExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "stop words and short tokens removed",
			text: "qual é o seu livro favorito",
			want: []string{"livro", "favorito"},
		},
		{
			name: "punctuation stripped",
			text: "Gostas de futebol? Futebol!!!",
			want: []string{"gostas", "futebol"},
		},
		{
			name: "accented characters preserved",
			text: "a música angolana é ótima",
			want: []string{"música", "angolana", "ótima"},
		},
		{
			name: "four character boundary",
			text: "isso aqui vale nada",
			want: []string{"isso", "aqui", "vale", "nada"},
		},
		{
			name: "three character tokens discarded",
			text: "oi eu sou seu fã",
			want: nil,
		},
		{
			name: "duplicates collapse keeping first position",
			text: "livro bom livro ruim livro",
			want: []string{"livro", "ruim"},
		},
		{
			name: "only stop words",
			text: "para o que como quem",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_NoStemming(t *testing.T) {
	t.Parallel()
	ex := NewExtractor()

	// Surface forms stay distinct; the ranker's topic keys rely on it.
	got := ex.Extract("livro livros")
	want := []string{"livro", "livros"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v (morphological variants must not merge)", got, want)
	}
}
