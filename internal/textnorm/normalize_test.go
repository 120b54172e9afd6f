package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Will the FED hike rates?", "will the fed hike rates"},
		{"collapses whitespace", "a   b\tc", "a b c"},
		{"strips punctuation", "Bitcoin: >$100k?!", "bitcoin 100k"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenize_AppliesSynonyms(t *testing.T) {
	got := Tokenize("will cpi rise in 2025")
	want := []string{"inflation", "rise", "2025"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestSignificantTokens_DropsShortWords(t *testing.T) {
	got := SignificantTokens("will btc hit 100k in december")
	for _, tok := range got {
		if len(tok) < 4 {
			t.Errorf("SignificantTokens returned short token %q", tok)
		}
	}
}

func TestNgrams(t *testing.T) {
	tokens := []string{"a", "b", "c"}
	got := Ngrams(tokens, 2)
	want := []string{"a b", "b c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ngrams = %v, want %v", got, want)
	}
}

func TestExtractYears(t *testing.T) {
	got := ExtractYears("bitcoin price in december 2025, up from 1999 and not 2150")
	want := []int{2025, 1999}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractYears = %v, want %v", got, want)
	}
}
