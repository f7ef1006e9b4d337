package request

type BulkAvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date" validate:"required,isodate"`
	Status    string `json:"status" validate:"required,oneof=available blocked"`
}

type DateAvailabilityRequest struct {
	Date   string `json:"date" validate:"required,isodate"`
	Status string `json:"status" validate:"required,oneof=available blocked"`
}

type MonthAvailabilityRequest struct {
	Month string `json:"month" validate:"required,yearmonth"`
}
