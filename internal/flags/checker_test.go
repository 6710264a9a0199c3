package flags

import (
	"slices"
	"testing"
)

func TestCheck(t *testing.T) {
	c := NewChecker(Registry{1: "FLAG{first}", 2: "FLAG{second}"})

	if !c.Check(1, "FLAG{first}") {
		t.Error("correct flag rejected")
	}
	if len(c.WrongGuesses(1)) != 0 {
		t.Error("correct submission must not be logged")
	}

	if c.Check(1, "flag{first}") {
		t.Error("flags are case sensitive")
	}
	if c.Check(2, "FLAG{first}") {
		t.Error("flag for another level accepted")
	}

	if got := c.WrongGuesses(1); !slices.Equal(got, []string{"flag{first}"}) {
		t.Errorf("WrongGuesses(1) = %v", got)
	}
}

func TestWrongGuessLogGrowth(t *testing.T) {
	c := NewChecker(Registry{3: "FLAG{x}"})

	guesses := []string{"a", "b", "a"}
	for _, g := range guesses {
		if c.Check(3, g) {
			t.Fatalf("wrong guess %q accepted", g)
		}
	}

	got := c.WrongGuesses(3)
	if !slices.Equal(got, guesses) {
		t.Errorf("WrongGuesses = %v, want %v (duplicates kept, order kept)", got, guesses)
	}

	// The accepted flag leaves the log untouched.
	if !c.Check(3, "FLAG{x}") {
		t.Fatal("correct flag rejected")
	}
	if len(c.WrongGuesses(3)) != len(guesses) {
		t.Error("correct submission changed the wrong-guess log")
	}
}

func TestUnregisteredLevel(t *testing.T) {
	c := NewChecker(Registry{1: "FLAG{x}"})

	if c.Check(9, "anything") {
		t.Error("submission for unregistered level accepted")
	}
	if len(c.WrongGuesses(9)) != 1 {
		t.Error("submission for unregistered level not logged")
	}

	all := c.AllWrongGuesses()
	if len(all[9]) != 1 {
		t.Errorf("AllWrongGuesses = %v", all)
	}
}

func TestRestore(t *testing.T) {
	c := NewChecker(Registry{2: "FLAG{x}"})
	c.Restore(map[int][]string{2: {"guess1", "guess2"}})

	if got := c.WrongGuesses(2); len(got) != 2 {
		t.Errorf("WrongGuesses = %v, want 2 entries", got)
	}
	if c.Check(2, "guess3") {
		t.Error("wrong submission accepted")
	}
	if got := c.WrongGuesses(2); len(got) != 3 {
		t.Errorf("WrongGuesses after new miss = %v, want 3 entries", got)
	}
}
