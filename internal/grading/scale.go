package grading

// GradeBand maps a minimum percentage to a letter grade.
type GradeBand struct {
	Min    int    `json:"min"`
	Letter string `json:"letter"`
}

// letterScale is the canonical grading scale, ordered descending by Min. The
// final F band acts as the catch-all. Program types share this single scale;
// there is no per-program divergence.
var letterScale = []GradeBand{
	{Min: 90, Letter: "A+"},
	{Min: 85, Letter: "A"},
	{Min: 80, Letter: "A-"},
	{Min: 77, Letter: "B+"},
	{Min: 73, Letter: "B"},
	{Min: 70, Letter: "B-"},
	{Min: 67, Letter: "C+"},
	{Min: 63, Letter: "C"},
	{Min: 60, Letter: "C-"},
	{Min: 50, Letter: "D"},
	{Min: 0, Letter: "F"},
}

// LetterScale returns a copy of the canonical scale for display purposes.
func LetterScale() []GradeBand {
	out := make([]GradeBand, len(letterScale))
	copy(out, letterScale)
	return out
}

// LetterForPercentage scans the scale and returns the first band whose
// minimum does not exceed the percentage.
func LetterForPercentage(percentage int) string {
	for _, band := range letterScale {
		if percentage >= band.Min {
			return band.Letter
		}
	}
	return letterScale[len(letterScale)-1].Letter
}
