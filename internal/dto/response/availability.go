package response

type DayAvailability struct {
	Date         string `json:"date"`
	Status       string `json:"status"`
	BookedGuests int    `json:"booked_guests"`
	Remaining    int    `json:"remaining"`
}

type MonthAvailabilityResponse struct {
	ExperienceID string            `json:"experience_id"`
	Month        string            `json:"month"`
	MaxGuests    int               `json:"max_guests"`
	Days         []DayAvailability `json:"days"`
}

type BulkAvailabilityResponse struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}
