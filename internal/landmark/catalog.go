package landmark

import "github.com/playperu/landmarks/internal/geo"

// Builtin returns the catalog used when no database is configured. The
// landmarks migration seeds the same rows.
func Builtin() []Landmark {
	return []Landmark{
		{
			ID:         "eiffel",
			Name:       "Eiffel Tower",
			Location:   geo.Coordinate{Lng: 2.2945, Lat: 48.8584},
			DetailsURL: "https://en.wikipedia.org/api/rest_v1/page/summary/Eiffel_Tower",
			Images: []string{
				"https://upload.wikimedia.org/wikipedia/commons/7/76/Georges_Garen_embrasement_tour_Eiffel.jpg",
				"https://upload.wikimedia.org/wikipedia/commons/5/53/Maurice_koechlin_pylone.jpg",
			},
		},
		{
			ID:         "taj",
			Name:       "Taj Mahal",
			Location:   geo.Coordinate{Lng: 78.0421, Lat: 27.1751},
			DetailsURL: "https://en.wikipedia.org/api/rest_v1/page/summary/Taj_Mahal",
			Images: []string{
				"https://upload.wikimedia.org/wikipedia/commons/1/1d/Taj_Mahal_%28Edited%29.jpeg",
				"https://upload.wikimedia.org/wikipedia/commons/9/94/Taj_Mahal_N-UP-A28-a_%28cropped%29.jpg",
			},
		},
		{
			ID:         "statueOfLiberty",
			Name:       "Statue of Liberty",
			Location:   geo.Coordinate{Lng: -74.0445, Lat: 40.6892},
			DetailsURL: "https://en.wikipedia.org/api/rest_v1/page/summary/Statue_of_Liberty",
			Images: []string{
				"https://upload.wikimedia.org/wikipedia/commons/5/57/Head_of_the_Statue_of_Liberty_on_display_in_a_park_in_Paris.jpg",
				"https://upload.wikimedia.org/wikipedia/commons/6/6e/EdwardMoran-UnveilingTheStatueofLiberty1886Large.jpg",
			},
		},
	}
}
