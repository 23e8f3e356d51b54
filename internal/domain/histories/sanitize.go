package histories

import "strings"

// Las listas del historial se sanean con la misma regla en alta y edición:
// las entradas sin sus campos obligatorios se descartan en silencio y una
// lista vacía queda como lista vacía, nunca nil.

func sanitizeVacunas(in []Vacuna) []Vacuna {
	out := make([]Vacuna, 0, len(in))
	for _, v := range in {
		v.Nombre = strings.TrimSpace(v.Nombre)
		v.Lote = strings.TrimSpace(v.Lote)
		v.Veterinario = strings.TrimSpace(v.Veterinario)
		if v.Nombre == "" || v.Fecha.IsZero() || v.ProximaFecha.IsZero() {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sanitizeAlergias(in []Alergia) []Alergia {
	out := make([]Alergia, 0, len(in))
	for _, a := range in {
		a.Sustancia = strings.TrimSpace(a.Sustancia)
		a.Reaccion = strings.TrimSpace(a.Reaccion)
		gravedad, ok := ParseSeverity(string(a.Gravedad))
		if a.Sustancia == "" || !ok {
			continue
		}
		a.Gravedad = gravedad
		out = append(out, a)
	}
	return out
}

func sanitizeCirugias(in []Cirugia) []Cirugia {
	out := make([]Cirugia, 0, len(in))
	for _, c := range in {
		c.Nombre = strings.TrimSpace(c.Nombre)
		c.Veterinario = strings.TrimSpace(c.Veterinario)
		c.Descripcion = strings.TrimSpace(c.Descripcion)
		c.Complicaciones = strings.TrimSpace(c.Complicaciones)
		if c.Nombre == "" || c.Fecha.IsZero() {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sanitizeMedicamentos(in []Medicamento) []Medicamento {
	out := make([]Medicamento, 0, len(in))
	for _, m := range in {
		m.Nombre = strings.TrimSpace(m.Nombre)
		m.Dosis = strings.TrimSpace(m.Dosis)
		m.Frecuencia = strings.TrimSpace(m.Frecuencia)
		if m.Nombre == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

func sanitizeEnfermedades(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
