package mathx

import "golang.org/x/exp/constraints"

// MapRange re-maps x from [inMin,inMax] to [outMin,outMax] with integer
// arithmetic (truncating toward zero). The result is not clamped, so inputs
// outside the source range extrapolate. inMin == inMax returns outMin.
func MapRange[T constraints.Signed](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
