package recast

// sameSliceUInt16 reports whether two slices share the same backing array
// start, which is how the polygon-merge loops detect "this candidate IS the
// polygon we are currently merging into" without carrying indices around.
func sameSliceUInt16(s1, s2 []uint16) bool {
	return &s1[0] == &s2[0]
}
