package muncher

// Savings returns the percentage of bytes saved going from in to out bytes.
// An empty input saves nothing.
func Savings(in, out int64) float64 {
	if in <= 0 {
		return 0
	}
	return 100 * (1 - float64(out)/float64(in))
}

// Result is the outcome of rewriting one input file
type Result struct {
	Group  string
	Path   string
	Output string
	Input  int64
	Size   int64
	Err    error
}

// Savings returns the result's percentage savings
func (r Result) Savings() float64 {
	return Savings(r.Input, r.Size)
}

// Totals sums the sizes of every successful result
func Totals(results []Result) (in, out int64) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		in += r.Input
		out += r.Size
	}
	return in, out
}
