package model

import "time"

// DemandPoint is one row of the uploaded demand file.
type DemandPoint struct {
	Index     int       `json:"index"` // 1-based data row in the source file
	Timestamp time.Time `json:"timestamp"`
	DemandKW  float64   `json:"demand_kw"`
}

// DemandSeries is an ordered list of hourly demand readings.
type DemandSeries []DemandPoint

// Peak returns the highest demand of the series.
func (s DemandSeries) Peak() float64 {
	var peak float64
	for i, p := range s {
		if i == 0 || p.DemandKW > peak {
			peak = p.DemandKW
		}
	}
	return peak
}

// EnergyKWh sums the readings assuming one reading per hour.
func (s DemandSeries) EnergyKWh() float64 {
	var sum float64
	for _, p := range s {
		sum += p.DemandKW
	}
	return sum
}
