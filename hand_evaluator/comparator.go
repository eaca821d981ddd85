package hand_evaluator

// Compare returns 1 when a beats b, -1 when b beats a and 0 on a tie.
func Compare(a, b Hand) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] == b.Tiebreaks[i] {
			continue
		}
		if a.Tiebreaks[i] > b.Tiebreaks[i] {
			return 1
		}
		return -1
	}

	// fewer cards known means fewer kickers
	switch {
	case len(a.Tiebreaks) > len(b.Tiebreaks):
		return 1
	case len(a.Tiebreaks) < len(b.Tiebreaks):
		return -1
	}

	return 0
}

// Winners returns every id holding the best hand, sorted by id.
func Winners(hands map[string]Hand) []string {
	winners := make([]string, 0)
	var best Hand
	for id, h := range hands {
		if len(winners) == 0 {
			winners = append(winners, id)
			best = h
			continue
		}

		switch Compare(h, best) {
		case 1:
			winners = []string{id}
			best = h
		case 0:
			winners = append(winners, id)
		}
	}

	return sortedIDs(winners)
}
