package pokedex

import "fmt"

// Lineage is the raw evolution taxonomy as it appears on a page: a
// position in the line ("first", "middle" or "last") mapped to the
// pokemon occupying that position. A position may hold several pokemon,
// regional variants all evolving from the same predecessor for example.
type Lineage map[string][]string

type EvolutionEdge struct {
	From string
	To   string
}

// Edges flattens the lineage into directed (predecessor, successor)
// pairs. With a middle stage, first evolves into middle and middle into
// last, two chained cross products. Without one, first evolves directly
// into last. A lineage holding only a first group produces no edges.
func (l Lineage) Edges() ([]EvolutionEdge, error) {
	for position := range l {
		switch position {
		case "first", "middle", "last":
		default:
			return nil, fmt.Errorf("unknown evolution position %q", position)
		}
	}

	_, hasFirst := l["first"]
	_, hasMiddle := l["middle"]
	_, hasLast := l["last"]

	if hasMiddle && (!hasFirst || !hasLast) {
		return nil, fmt.Errorf("evolution line has a middle stage but no first or last stage")
	}
	if hasLast && !hasFirst {
		return nil, fmt.Errorf("evolution line has a last stage but no first stage")
	}

	var edges []EvolutionEdge
	if hasMiddle {
		for _, mid := range l["middle"] {
			for _, first := range l["first"] {
				edges = append(edges, EvolutionEdge{From: first, To: mid})
			}
		}
		for _, last := range l["last"] {
			for _, mid := range l["middle"] {
				edges = append(edges, EvolutionEdge{From: mid, To: last})
			}
		}
		return edges, nil
	}
	if hasLast {
		for _, last := range l["last"] {
			for _, first := range l["first"] {
				edges = append(edges, EvolutionEdge{From: first, To: last})
			}
		}
	}
	return edges, nil
}
