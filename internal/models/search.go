package models

// SearchParams describes the filters used to build a site's listing URL
type SearchParams struct {
	Neighborhoods  []string `yaml:"neighborhoods" json:"neighborhoods"`
	NumberOfRooms  []int    `yaml:"number_of_rooms" json:"numberOfRooms"`
	NumberOfSuites int      `yaml:"number_of_suites" json:"numberOfSuites"`
	MinArea        int      `yaml:"min_area" json:"minArea"`
	MaxArea        int      `yaml:"max_area" json:"maxArea"`
	MinPrice       int      `yaml:"min_price" json:"minPrice"`
	MaxPrice       int      `yaml:"max_price" json:"maxPrice"`
	HasElevator    bool     `yaml:"has_elevator" json:"hasElevator"`
	HasParking     bool     `yaml:"has_parking" json:"hasParking"`
}
