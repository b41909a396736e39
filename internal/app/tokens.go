package app

// EstimateTokens approximates the token count of text as one token per four
// bytes. This is not a tokenizer; it only feeds the console-output budget, so
// a rough bound is enough.
func EstimateTokens(text string) int {
	return len(text) / 4
}
