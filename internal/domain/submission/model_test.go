package submission

import "testing"

func TestAppendDisputeNotes(t *testing.T) {
	t.Parallel()

	s := Submission{Notes: "scored on board 3"}
	s.AppendNote(DisputeNote("p-2", ""))
	s.AppendNote(DisputeNote("p-1", "  wrong leg count "))
	s.AppendNote("   ")

	want := "scored on board 3\nDisputed by p-2: No reason provided\nDisputed by p-1: wrong leg count"
	if s.Notes != want {
		t.Fatalf("unexpected notes:\n%s", s.Notes)
	}
}

func TestDecidable(t *testing.T) {
	t.Parallel()

	for status, want := range map[Status]bool{
		StatusPending:  true,
		StatusDisputed: true,
		StatusVerified: false,
		StatusRejected: false,
	} {
		if got := (Submission{Status: status}).Decidable(); got != want {
			t.Fatalf("Decidable(%s) = %v, want %v", status, got, want)
		}
	}
}
