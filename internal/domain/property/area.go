package property

// Ratings are 1-5 scores on the four area axes.
type Ratings struct {
	Crime     int `json:"crime"`
	Schools   int `json:"schools"`
	Transport int `json:"transport"`
	Economy   int `json:"economy"`
}

// Average returns the mean of the four axes.
func (r Ratings) Average() float64 {
	return float64(r.Crime+r.Schools+r.Transport+r.Economy) / 4
}

// Axes returns the ratings in a fixed order.
func (r Ratings) Axes() [4]int {
	return [4]int{r.Crime, r.Schools, r.Transport, r.Economy}
}

// District groups areas and determines staff salary tiers.
type District struct {
	Name string `json:"name"`
	Tier int    `json:"tier"` // 1-3
}

// Area is a city zone.
type Area struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	District string  `json:"district"`
	Ratings  Ratings `json:"ratings"`
}

// Districts is the fixed city layout.
var Districts = []District{
	{Name: "Northside", Tier: 1},
	{Name: "Riverside", Tier: 2},
	{Name: "Old Town", Tier: 2},
	{Name: "Westbury", Tier: 3},
}

// DistrictTier returns the tier of a district, or 1 if it is unknown.
func DistrictTier(name string) int {
	for _, d := range Districts {
		if d.Name == name {
			return d.Tier
		}
	}
	return 1
}

// IsDistrict reports whether name is a known district.
func IsDistrict(name string) bool {
	for _, d := range Districts {
		if d.Name == name {
			return true
		}
	}
	return false
}

// DefaultAreas returns the starting city zones.
func DefaultAreas() []Area {
	return []Area{
		{ID: "mill-lane", Name: "Mill Lane", District: "Northside", Ratings: Ratings{Crime: 2, Schools: 2, Transport: 3, Economy: 2}},
		{ID: "canal-quarter", Name: "Canal Quarter", District: "Northside", Ratings: Ratings{Crime: 3, Schools: 2, Transport: 2, Economy: 3}},
		{ID: "wharf", Name: "The Wharf", District: "Riverside", Ratings: Ratings{Crime: 3, Schools: 3, Transport: 4, Economy: 3}},
		{ID: "willow-bank", Name: "Willow Bank", District: "Riverside", Ratings: Ratings{Crime: 4, Schools: 3, Transport: 3, Economy: 3}},
		{ID: "market-square", Name: "Market Square", District: "Old Town", Ratings: Ratings{Crime: 3, Schools: 4, Transport: 4, Economy: 4}},
		{ID: "abbey-green", Name: "Abbey Green", District: "Old Town", Ratings: Ratings{Crime: 4, Schools: 4, Transport: 3, Economy: 3}},
		{ID: "kings-park", Name: "Kings Park", District: "Westbury", Ratings: Ratings{Crime: 5, Schools: 5, Transport: 3, Economy: 4}},
		{ID: "hillcrest", Name: "Hillcrest", District: "Westbury", Ratings: Ratings{Crime: 4, Schools: 5, Transport: 4, Economy: 5}},
	}
}

// FindArea returns the area with the given id.
func FindArea(areas []Area, id string) (Area, bool) {
	for _, a := range areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}
