package slices

// Map converts each element of sli with mapper, keeping order.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Filter returns elements of sli satisfying predicator, keeping order.
func Filter[T any](sli []T, predicator func(T) bool) []T {
	ret := []T{}
	for _, v := range sli {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}
