package picker

// Prediction is a ranked item. Index points into the dialogue's item store.
type Prediction[T comparable] struct {
	Item  T
	Index int
	Score int
}

// Selection is the highlighted prediction.
type Selection[T comparable] struct {
	Index int
	Item  T
}

// TrackSelection carries prev over to a freshly ranked list: the same item if
// it survived, else the same position, else the first prediction. It returns
// nil when preds is empty.
func TrackSelection[T comparable](prev *Selection[T], preds []Prediction[T]) *Selection[T] {
	if len(preds) == 0 {
		return nil
	}
	if prev != nil {
		for i, p := range preds {
			if p.Item == prev.Item {
				return &Selection[T]{Index: i, Item: p.Item}
			}
		}
		if prev.Index >= 0 && prev.Index < len(preds) {
			return &Selection[T]{Index: prev.Index, Item: preds[prev.Index].Item}
		}
	}
	return &Selection[T]{Index: 0, Item: preds[0].Item}
}

// step moves the selection by delta with wrap-around.
func step[T comparable](sel *Selection[T], preds []Prediction[T], delta int) *Selection[T] {
	if len(preds) == 0 {
		return nil
	}
	var next int
	switch {
	case sel == nil && delta < 0:
		next = len(preds) - 1
	case sel == nil:
		next = 0
	default:
		next = (sel.Index + delta + len(preds)) % len(preds)
	}
	return &Selection[T]{Index: next, Item: preds[next].Item}
}

// samePredictions compares what a frame shows: the same items in the same
// order. Scores are ignored.
func samePredictions[T comparable](a, b []Prediction[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Index != b[i].Index || a[i].Item != b[i].Item {
			return false
		}
	}
	return true
}

func sameSelection[T comparable](a, b *Selection[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
