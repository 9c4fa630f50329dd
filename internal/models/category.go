package models

// Category is an event category; users reuse it for their interests.
type Category string

const (
	CategoryRestaurant   Category = "RESTAURANT"
	CategoryBar          Category = "BAR"
	CategoryClub         Category = "CLUB"
	CategoryCafe         Category = "CAFE"
	CategoryConcert      Category = "CONCERT"
	CategoryFestival     Category = "FESTIVAL"
	CategoryTheatre      Category = "THEATRE"
	CategoryMuseum       Category = "MUSEUM"
	CategoryExhibition   Category = "EXHIBITION"
	CategoryPark         Category = "PARK"
	CategoryBrunch       Category = "BRUNCH"
	CategoryShows        Category = "SHOWS"
	CategorySports       Category = "SPORTS"
	CategoryGallery      Category = "GALLERY"
	CategoryParty        Category = "PARTY"
	CategoryCinema       Category = "CINEMA"
	CategoryConference   Category = "CONFERENCE"
	CategoryFoodAndDrink Category = "FOOD_AND_DRINK"
	CategorySeminar      Category = "SEMINAR"
	CategoryWorkshop     Category = "WORKSHOP"
	CategoryEducational  Category = "EDUCATIONAL"
	CategoryCultural     Category = "CULTURAL"
)

var allCategories = map[Category]struct{}{
	CategoryRestaurant: {}, CategoryBar: {}, CategoryClub: {}, CategoryCafe: {},
	CategoryConcert: {}, CategoryFestival: {}, CategoryTheatre: {}, CategoryMuseum: {},
	CategoryExhibition: {}, CategoryPark: {}, CategoryBrunch: {}, CategoryShows: {},
	CategorySports: {}, CategoryGallery: {}, CategoryParty: {}, CategoryCinema: {},
	CategoryConference: {}, CategoryFoodAndDrink: {}, CategorySeminar: {},
	CategoryWorkshop: {}, CategoryEducational: {}, CategoryCultural: {},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := allCategories[c]
	return ok
}

// Categories is stored as a JSON array column.
type Categories []Category
