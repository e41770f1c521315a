package domain

// Report is the outcome of one matching run.
type Report struct {
	Model     MatrixSet `json:"model"`
	Space     MatrixSet `json:"space"`
	Matched   MatrixSet `json:"matched"`
	Unmatched MatrixSet `json:"unmatched"`
	Epsilon   float32   `json:"epsilon"`
}

// Views returns the categorized sets in drawing order.
func (r *Report) Views() []View {
	return []View{
		{Category: CategoryMatched, Set: r.Matched},
		{Category: CategoryUnmatched, Set: r.Unmatched},
		{Category: CategorySpace, Set: r.Space},
	}
}

// View pairs a set with the category it is drawn as.
type View struct {
	Category Category
	Set      MatrixSet
}
