package routing

import "math"

const (
	earthRadiusKm = 6371.0

	// avgDriveSpeedKmh converts great-circle distance to a drive-time
	// estimate. Tour buses do not take great circles, but the estimate
	// only has to rank stops against each other.
	avgDriveSpeedKmh = 80.0
)

// haversineKm returns the great-circle distance between two coordinate
// pairs in kilometers.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// distanceKm returns the distance between two venues, or false when either
// lacks coordinates.
func distanceKm(a, b Venue) (float64, bool) {
	if a.Lat == nil || a.Lng == nil || b.Lat == nil || b.Lng == nil {
		return 0, false
	}
	return haversineKm(*a.Lat, *a.Lng, *b.Lat, *b.Lng), true
}

// driveTimeMin estimates drive time between two venues in minutes.
func driveTimeMin(a, b Venue) (int, bool) {
	km, ok := distanceKm(a, b)
	if !ok {
		return 0, false
	}
	return int(math.Round(km / avgDriveSpeedKmh * 60)), true
}
