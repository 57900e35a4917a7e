// Package tokenize splits raw sentences into word tokens with exact
// byte offsets into the original string.
package tokenize

import "unicode"

// Token is a single word together with its position in the source
// string. Start and End are byte offsets such that
// text[Start:End] == Text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text on maximal runs of Unicode whitespace.
// No normalization is applied: the token text is the exact substring
// of the input. Empty or whitespace-only input yields no tokens.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Start: start, End: len(text)})
	}
	return tokens
}

// Words extracts the token texts in order. Useful when only the word
// sequence matters, such as when requesting embeddings.
func Words(tokens []Token) []string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return words
}
