package cart

// IncrementMatch folds candidate into lines: if a line with the same match
// key exists its quantity grows by the candidate's, otherwise the candidate
// is appended. Insertion order is preserved. A candidate quantity below 1 is
// coerced to 1, matching the add-to-cart flows.
func IncrementMatch(lines []LineItem, candidate LineItem) []LineItem {
	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}
	key := candidate.MatchKey()
	for i := range lines {
		if lines[i].MatchKey() == key {
			lines[i].Quantity += candidate.Quantity
			return lines
		}
	}
	return append(lines, candidate)
}

// SetMatch replaces the quantity of the matching line with the candidate's
// quantity, appending when no line matches. A quantity of zero or below
// removes the line; zero-quantity lines never persist.
func SetMatch(lines []LineItem, candidate LineItem) []LineItem {
	key := candidate.MatchKey()
	for i := range lines {
		if lines[i].MatchKey() == key {
			if candidate.Quantity <= 0 {
				return append(lines[:i], lines[i+1:]...)
			}
			lines[i].Quantity = candidate.Quantity
			return lines
		}
	}
	if candidate.Quantity <= 0 {
		return lines
	}
	return append(lines, candidate)
}

// FindMatch returns the index of the line with the given match key, or -1.
func FindMatch(lines []LineItem, key string) int {
	for i := range lines {
		if lines[i].MatchKey() == key {
			return i
		}
	}
	return -1
}
