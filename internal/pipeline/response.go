// README: Wire shape of a successful result.
package pipeline

import "math"

type Response struct {
	PredictedPrice int64            `json:"predicted_price"`
	Drivers        []DriverResponse `json:"drivers"`
}

// DriverResponse is one shortlisted driver. DistanceKm is null when the
// driver's position is unknown.
type DriverResponse struct {
	FullName        string   `json:"fullname"`
	Phone           string   `json:"phone"`
	TransportModel  string   `json:"transport_model"`
	TransportWeight float64  `json:"transport_weight"`
	TransportVolume float64  `json:"transport_volume"`
	DistanceKm      *float64 `json:"distance_km"`
}

func (r Result) Response() Response {
	out := Response{
		PredictedPrice: r.Quote.Price.Amount,
		Drivers:        make([]DriverResponse, 0, len(r.Drivers)),
	}
	for _, d := range r.Drivers {
		dr := DriverResponse{
			FullName:        d.Driver.FullName,
			Phone:           d.Driver.Phone,
			TransportModel:  d.Driver.TransportModel,
			TransportWeight: d.Capacity.Weight,
			TransportVolume: d.Capacity.Volume,
		}
		if !math.IsNaN(d.DistanceKm) && !math.IsInf(d.DistanceKm, 0) {
			km := d.DistanceKm
			dr.DistanceKm = &km
		}
		out.Drivers = append(out.Drivers, dr)
	}
	return out
}
