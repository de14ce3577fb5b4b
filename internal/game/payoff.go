package game

// Payoffs returns the scores for both sides of a Chicken pair given their
// choices. It is a pure total function and symmetric under role swap:
//
//	         other=TURN   other=ACCELERATE
//	TURN        (3, 3)       (-3, 10)
//	ACCELERATE (10, -3)     (-10, -10)
func Payoffs(self, other Choice) (int, int) {
	switch {
	case self == ChoiceTurn && other == ChoiceTurn:
		return 3, 3
	case self == ChoiceTurn && other == ChoiceAccelerate:
		return -3, 10
	case self == ChoiceAccelerate && other == ChoiceTurn:
		return 10, -3
	default:
		return -10, -10
	}
}
