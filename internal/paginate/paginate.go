// Package paginate splits a long document into page-sized slices at
// newline boundaries, for callers (a UI, the batch CLI) that want to feed
// the converter bounded chunks instead of an entire file at once.
package paginate

// Paginate splits text into slices; each slice begins where the previous
// one ended and extends to the first newline at or after cursor+minLength,
// or to end-of-input if no such newline exists. minLength <= 0 is treated
// as 1 to guarantee forward progress.
func Paginate(text string, minLength int) []string {
	if minLength <= 0 {
		minLength = 1
	}
	runes := []rune(text)
	var pages []string
	cursor := 0
	for cursor < len(runes) {
		target := cursor + minLength
		cut := len(runes)
		if target < len(runes) {
			cut = target
			for cut < len(runes) && runes[cut] != '\n' {
				cut++
			}
			if cut < len(runes) {
				cut++ // include the newline in the page it closes
			}
		}
		pages = append(pages, string(runes[cursor:cut]))
		cursor = cut
	}
	return pages
}
