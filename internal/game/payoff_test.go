package game

import "testing"

func TestPayoffs_Matrix(t *testing.T) {
	cases := []struct {
		self, other    Choice
		wantSelf, wantOther int
	}{
		{ChoiceTurn, ChoiceTurn, 3, 3},
		{ChoiceTurn, ChoiceAccelerate, -3, 10},
		{ChoiceAccelerate, ChoiceTurn, 10, -3},
		{ChoiceAccelerate, ChoiceAccelerate, -10, -10},
	}
	for _, c := range cases {
		gotSelf, gotOther := Payoffs(c.self, c.other)
		if gotSelf != c.wantSelf || gotOther != c.wantOther {
			t.Errorf("Payoffs(%s, %s) = (%d, %d), want (%d, %d)",
				c.self, c.other, gotSelf, gotOther, c.wantSelf, c.wantOther)
		}
	}
}

func TestPayoffs_SymmetricUnderRoleSwap(t *testing.T) {
	choices := []Choice{ChoiceTurn, ChoiceAccelerate}
	for _, a := range choices {
		for _, b := range choices {
			selfAB, otherAB := Payoffs(a, b)
			selfBA, otherBA := Payoffs(b, a)
			if selfAB != otherBA || otherAB != selfBA {
				t.Errorf("Payoffs(%s, %s) and Payoffs(%s, %s) are not mirror images", a, b, b, a)
			}
		}
	}
}

func TestPayoffs_PairSums(t *testing.T) {
	// Every cell of the matrix sums to 6, 7 or -20.
	allowed := map[int]bool{6: true, 7: true, -20: true}
	choices := []Choice{ChoiceTurn, ChoiceAccelerate}
	for _, a := range choices {
		for _, b := range choices {
			p1, p2 := Payoffs(a, b)
			if !allowed[p1+p2] {
				t.Errorf("Payoffs(%s, %s) sums to %d, want one of {6, 7, -20}", a, b, p1+p2)
			}
		}
	}
}
