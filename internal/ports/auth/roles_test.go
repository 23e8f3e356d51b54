package auth

import "testing"

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" veterinario "); !ok || r != RoleVeterinario {
		t.Fatalf("expected veterinario, got %q ok=%v", r, ok)
	}
	if _, ok := ParseRole("doctor"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatalf("expected empty role to be rejected")
	}
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapUsuariosDelete, true},
		{RoleRecepcionista, CapUsuariosDelete, false},
		{RoleRecepcionista, CapUsuariosList, true},
		{RoleVeterinario, CapMascotasDelete, true},
		{RoleCliente, CapMascotasDelete, false},
		{RoleVeterinario, CapHistorialDelete, false},
		{RoleAdmin, CapHistorialDelete, true},
		{RoleCliente, CapHistorialCreate, false},
	}
	for _, c := range cases {
		if got := Allowed(c.role, c.cap); got != c.want {
			t.Errorf("Allowed(%s, %s) = %v, want %v", c.role, c.cap, got, c.want)
		}
	}
}
