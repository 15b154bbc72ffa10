package pkg

func Filter[T any](s []T, keep func(T) bool) []T {
	res := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			res = append(res, v)
		}
	}
	return res
}

func Map[T, U any](s []T, f func(T) U) []U {
	res := make([]U, len(s))
	for i, v := range s {
		res[i] = f(v)
	}
	return res
}
