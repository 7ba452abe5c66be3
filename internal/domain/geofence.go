package domain

// OceanProximity reports whether an epicenter falls inside one of the three
// tsunami risk basins. Each basin is a coarse axis-aligned bounding box with
// strict bounds; the function is total over the full coordinate domain.
func OceanProximity(lat, lon float64) bool {
	return inPacificRing(lat, lon) || inIndianOcean(lat, lon) || inCaribbean(lat, lon)
}

// inPacificRing covers the Pacific Ring of Fire on both sides of the
// antimeridian: the western box ends at 180 and the eastern box resumes at
// -180, leaving the American continents (lon > -60) outside.
func inPacificRing(lat, lon float64) bool {
	if lat <= -60 || lat >= 60 {
		return false
	}
	return (lon > 120 && lon < 180) || (lon > -180 && lon < -60)
}

func inIndianOcean(lat, lon float64) bool {
	return lat > -45 && lat < 25 && lon > 40 && lon < 120
}

func inCaribbean(lat, lon float64) bool {
	return lat > 5 && lat < 25 && lon > -90 && lon < -55
}
