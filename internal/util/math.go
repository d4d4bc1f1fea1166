package util

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

func Sum[T Number](list []T) T {
	var sum T
	for _, val := range list {
		sum += val
	}
	return sum
}
