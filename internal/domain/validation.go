package domain

import "math"

// Validate checks every numeric parameter against its domain.
func (c ShuffleConfig) Validate() error {
	if c.Plays < 0 {
		return NewValidationError("plays", c.Plays, "must be non-negative")
	}
	if math.IsNaN(c.Randomness) || math.IsInf(c.Randomness, 0) || c.Randomness < 0 {
		return NewValidationError("randomness", c.Randomness, "must be a finite non-negative number")
	}
	if c.Buffer < 0 {
		return NewValidationError("buffer", c.Buffer, "must be non-negative")
	}
	if math.IsNaN(c.MinRec) || c.MinRec < 0 || c.MinRec > 1 {
		return NewValidationError("min_rec", c.MinRec, "must be between 0.0 and 1.0")
	}
	return nil
}

// ValidateItems checks that items is non-empty, strictly positive and free of duplicates.
func ValidateItems(items []ItemID) error {
	if len(items) == 0 {
		return NewValidationError("items", len(items), "at least one item is required")
	}
	seen := make(map[ItemID]struct{}, len(items))
	for _, id := range items {
		if id <= 0 {
			return NewValidationError("items", id, "identifiers must be strictly positive")
		}
		if _, dup := seen[id]; dup {
			return NewValidationError("items", id, "duplicate identifier")
		}
		seen[id] = struct{}{}
	}
	return nil
}
