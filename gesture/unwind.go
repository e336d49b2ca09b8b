package gesture

// Unwind drives the pointer back by the negation of the accumulated
// displacement. Both axes step in every emitted event, each step moves at
// most maxStep units, and the loop runs until both remainders reach exactly
// zero. It blocks until complete.
func Unwind(mouse MouseSink, ax, ay, maxStep int) {
	for ax != 0 || ay != 0 {
		dx := unwindStep(ax, maxStep)
		dy := unwindStep(ay, maxStep)
		mouse.Move(dx, dy)
		ax += dx
		ay += dy
	}
}

// unwindStep returns the next bounded increment toward zero for one axis.
func unwindStep(remaining, maxStep int) int {
	switch {
	case remaining > 0:
		return -min(remaining, maxStep)
	case remaining < 0:
		return min(-remaining, maxStep)
	}
	return 0
}
