package summary

// Range is an inclusive [first, last] pair of sequence numbers.
type Range [2]int64

// SortedNumbersToRanges collapses an ascending slice of numbers into
// inclusive ranges of consecutive runs:
//
//	[1,2,3,4,5,6] -> [[1,6]]
//	[1,2,3,5,6]   -> [[1,3],[5,6]]
//	[]            -> []
func SortedNumbersToRanges(numbers []int64) []Range {
	ranges := []Range{}
	for _, n := range numbers {
		if len(ranges) > 0 && ranges[len(ranges)-1][1]+1 == n {
			ranges[len(ranges)-1][1] = n
			continue
		}
		ranges = append(ranges, Range{n, n})
	}
	return ranges
}
