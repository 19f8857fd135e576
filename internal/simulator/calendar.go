package simulator

// calendar.go — aritmética de meses sin normalización silenciosa.
//
// time.AddDate normaliza: 31 Ene + 1 mes = 2/3 Mar. Aquí el día del mes se
// recorta al último día del mes destino (31 Ene → 28/29 Feb), el mismo
// comportamiento que el caller espera de una aportación "mensual".

import "time"

// startOfMonth devuelve el día 1 del mes de t, a medianoche UTC.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// addMonths avanza t exactamente n meses de calendario, manteniendo el día
// del mes y recortándolo al último día del mes destino si no existe.
func addMonths(t time.Time, n int) time.Time {
	day := t.Day()
	// Día 1 nunca normaliza, es el ancla segura para el salto de mes.
	anchor := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth devuelve el número de días del mes dado.
func daysInMonth(year int, month time.Month) int {
	// Día 0 del mes siguiente = último día de este mes.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
