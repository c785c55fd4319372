package bpe

import "strings"

// SymbolAt reads the symbol that starts at index and returns it with the
// index it ends at.
//
// A plain character is its own symbol and ends where it starts. A marker
// opens a composite symbol: the text runs from the first non-marker at or
// after index up to the next marker, or to the end of the word. The
// returned end is the index of that closing marker (or len(word)).
func SymbolAt(word string, index int, marker byte) (string, int) {
	if word[index] != marker {
		return word[index : index+1], index
	}

	start := index
	for i := index; i < len(word); i++ {
		if word[i] != marker {
			start = i
			break
		}
	}

	end := len(word)
	if i := strings.IndexByte(word[start+1:], marker); i >= 0 {
		end = start + 1 + i
	}
	return word[start:end], end
}

// CountPairsInWord counts adjacent symbol pairs in a single word. The cursor
// advances from the end of the first symbol of each pair, so consecutive
// pairs overlap by one symbol.
func CountPairsInWord(word string, marker byte) map[string]int {
	pairs := map[string]int{}
	for n := 0; n < len(word)-1; {
		first, end := SymbolAt(word, n, marker)
		n = end + 1
		if n >= len(word) {
			break
		}
		second, _ := SymbolAt(word, n, marker)
		pairs[first+second]++
	}
	return pairs
}

// splitSymbols walks an encoded word and returns its symbols, dropping the
// bare markers that separate or terminate composites.
func splitSymbols(word string, marker byte) []string {
	var out []string
	bare := string(marker)
	for n := 0; n < len(word); {
		symbol, end := SymbolAt(word, n, marker)
		n = end + 1
		if symbol != bare {
			out = append(out, symbol)
		}
	}
	return out
}
