package models

// City is a world city document (MongoDB)
type City struct {
	ID         uint    `json:"id" bson:"id"`
	City       string  `json:"city" bson:"city"`
	CityASCII  string  `json:"cityAscii" bson:"city_ascii"`
	Country    string  `json:"country" bson:"country"`
	ISO2       string  `json:"iso2" bson:"iso2"`
	AdminName  string  `json:"adminName" bson:"admin_name"`
	Lat        float64 `json:"lat" bson:"lat"`
	Lng        float64 `json:"lng" bson:"lng"`
	Population int64   `json:"population" bson:"population"`
}

// CitiesQuery searches cities by name; cursor -1 is the first page.
type CitiesQuery struct {
	CityName string `query:"cityName" validate:"max=255"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Cursor   int64  `query:"cursor"`
}
