package evaluation

// FilterByStatus returns the records in bucket f, keeping their order.
// The bucket name is parsed like ParseStatusFilter, so surrounding spaces are ignored.
// FilterAll hands back records as is. Unknown buckets fail with ErrInvalidArgument.
func FilterByStatus(records []AnalysisRecord, f StatusFilter) ([]AnalysisRecord, error) {
	f, err := ParseStatusFilter(string(f))
	if err != nil {
		return nil, err
	}
	if f == FilterAll {
		return records, nil
	}

	out := make([]AnalysisRecord, 0, len(records))
	for _, r := range records {
		if StatusFilter(r.Status) == f {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountByStatus counts every bucket by running the filter.
func CountByStatus(records []AnalysisRecord) StatusCounts {
	count := func(f StatusFilter) int {
		rs, _ := FilterByStatus(records, f)
		return len(rs)
	}
	return StatusCounts{
		All:       count(FilterAll),
		Excellent: count(FilterExcellent),
		Good:      count(FilterGood),
		Warning:   count(FilterWarning),
	}
}

// Lookup returns the record with the given id.
func Lookup(records []AnalysisRecord, id int) (AnalysisRecord, error) {
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return AnalysisRecord{}, ErrRecordNotFound
}
