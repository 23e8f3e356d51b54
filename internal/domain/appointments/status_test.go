package appointments

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusProgramada, StatusConfirmada, true},
		{StatusProgramada, StatusCompletada, true},
		{StatusProgramada, StatusCancelada, true},
		{StatusProgramada, StatusProgramada, false},
		{StatusConfirmada, StatusCompletada, true},
		{StatusConfirmada, StatusCancelada, true},
		{StatusConfirmada, StatusProgramada, false},
		{StatusCompletada, StatusCancelada, false},
		{StatusCancelada, StatusProgramada, false},
		{StatusCancelada, StatusConfirmada, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, esperaba %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for estado, want := range map[Status]bool{
		StatusProgramada: false,
		StatusConfirmada: false,
		StatusCompletada: true,
		StatusCancelada:  true,
	} {
		if got := estado.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, esperaba %v", estado, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("Programada"); !ok {
		t.Fatal("Programada debería parsear")
	}
	if _, ok := ParseStatus("programada"); ok {
		t.Fatal("el estado distingue mayúsculas")
	}
	if _, ok := ParseStatus("Pendiente"); ok {
		t.Fatal("Pendiente no es un estado válido")
	}
}
