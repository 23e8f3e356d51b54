package auth

import "strings"

// Role define los roles soportados.
// @Enum cliente, veterinario, recepcionista, admin
type Role string

const (
	RoleCliente       Role = "cliente"
	RoleVeterinario   Role = "veterinario"
	RoleRecepcionista Role = "recepcionista"
	RoleAdmin         Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleCliente:
		return RoleCliente, true
	case RoleVeterinario:
		return RoleVeterinario, true
	case RoleRecepcionista:
		return RoleRecepcionista, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Capability identifica una operación protegida de la API.
type Capability string

const (
	CapUsuariosList     Capability = "usuarios:list"
	CapUsuariosDelete   Capability = "usuarios:delete"
	CapMascotasDelete   Capability = "mascotas:delete"
	CapMascotasTransfer Capability = "mascotas:transfer"
	CapHistorialCreate  Capability = "historiales:create"
	CapHistorialUpdate  Capability = "historiales:update"
	CapHistorialDelete  Capability = "historiales:delete"
)

// capabilityRoles es la tabla declarativa operación -> roles permitidos.
// Las reglas por ownership (cliente solo ve lo suyo) siguen en cada service;
// esta tabla cubre los cortes puramente por rol.
var capabilityRoles = map[Capability][]Role{
	CapUsuariosList:     {RoleAdmin, RoleRecepcionista},
	CapUsuariosDelete:   {RoleAdmin},
	CapMascotasDelete:   {RoleAdmin, RoleVeterinario},
	CapMascotasTransfer: {RoleAdmin, RoleRecepcionista},
	CapHistorialCreate:  {RoleAdmin, RoleVeterinario},
	CapHistorialUpdate:  {RoleAdmin, RoleVeterinario},
	CapHistorialDelete:  {RoleAdmin},
}

// Allowed responde si el rol puede ejercer la capability.
func Allowed(r Role, c Capability) bool {
	for _, allowed := range capabilityRoles[c] {
		if r == allowed {
			return true
		}
	}
	return false
}
