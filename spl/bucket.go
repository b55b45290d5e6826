package spl

// Bucketizer quantizes a level in dB into one of Levels bar heights.
type Bucketizer struct {
	// Floor is the level shown as the lowest bucket.
	Floor float32
	// Step is the width of one bucket in dB.
	Step   float32
	Levels int
}

// Index returns int((level-Floor)/Step) clamped to [0, Levels-1].
func (b Bucketizer) Index(level float32) int {
	if level != level {
		return 0
	}
	i := int((level - b.Floor) / b.Step)
	if i > b.Levels-1 {
		i = b.Levels - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
