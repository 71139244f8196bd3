package surveillance

// NotifiableEvent is one entry of the mandatory-notification event catalog.
type NotifiableEvent struct {
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Type      NotificationType `json:"type"`
}

// notifiableEvents is the subset of the national event catalog the facility
// notifies. Codes follow the surveillance system's event coding.
var notifiableEvents = []NotifiableEvent{
	{Code: "100", Name: "Accidente de trabajo con exposición a material biológico", Type: NotifyWeekly},
	{Code: "110", Name: "Bajo peso al nacer", Type: NotifyWeekly},
	{Code: "155", Name: "Cáncer de mama y cuello uterino", Type: NotifyWeekly},
	{Code: "205", Name: "Chagas", Type: NotifyWeekly},
	{Code: "210", Name: "Dengue", Type: NotifyWeekly},
	{Code: "220", Name: "Dengue grave", Type: NotifyImmediate},
	{Code: "300", Name: "Evento adverso seguido a la vacunación", Type: NotifyImmediate},
	{Code: "343", Name: "Intento de suicidio", Type: NotifyWeekly},
	{Code: "345", Name: "Intoxicaciones por sustancias químicas", Type: NotifyWeekly},
	{Code: "356", Name: "Leptospirosis", Type: NotifyWeekly},
	{Code: "420", Name: "Malaria", Type: NotifyWeekly},
	{Code: "540", Name: "Mortalidad materna", Type: NotifyImmediate},
	{Code: "549", Name: "Mortalidad perinatal y neonatal tardía", Type: NotifyWeekly},
	{Code: "550", Name: "Parálisis flácida aguda en menores de 15 años", Type: NotifyImmediate},
	{Code: "730", Name: "Sarampión", Type: NotifyImmediate},
	{Code: "800", Name: "Sífilis gestacional", Type: NotifyWeekly},
	{Code: "810", Name: "Sífilis congénita", Type: NotifyWeekly},
	{Code: "831", Name: "Tos ferina", Type: NotifyImmediate},
	{Code: "850", Name: "Tuberculosis", Type: NotifyWeekly},
	{Code: "875", Name: "Violencia de género e intrafamiliar", Type: NotifyWeekly},
	{Code: "895", Name: "VIH/SIDA/Mortalidad por SIDA", Type: NotifyWeekly},
	{Code: "345A", Name: "Agresiones por animales potencialmente transmisores de rabia", Type: NotifyWeekly},
}

// NotifiableEvents returns the mandatory-notification event catalog.
func NotifiableEvents() []NotifiableEvent {
	out := make([]NotifiableEvent, len(notifiableEvents))
	copy(out, notifiableEvents)
	return out
}

// NotifiableEventByCode looks an event up in the catalog.
func NotifiableEventByCode(code string) (NotifiableEvent, bool) {
	for _, e := range notifiableEvents {
		if e.Code == code {
			return e, true
		}
	}
	return NotifiableEvent{}, false
}
