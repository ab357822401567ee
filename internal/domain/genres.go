package domain

import (
	"sort"
	"strings"
)

// Genre is a catalog genre
type Genre struct {
	ID   int
	Name string
}

// genreNames maps catalog genre IDs to display names
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// languageNames maps ISO 639-1 codes to display names
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"pt": "Portuguese",
	"ru": "Russian",
	"hi": "Hindi",
	"ar": "Arabic",
}

// GenreName returns the display name for a genre ID ("Unknown" if unmapped)
func GenreName(id int) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return "Unknown"
}

// GenreNames returns display names for a list of genre IDs, in order
func GenreNames(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, GenreName(id))
	}
	return names
}

// Genres returns all known genres sorted by name
func Genres() []Genre {
	genres := make([]Genre, 0, len(genreNames))
	for id, name := range genreNames {
		genres = append(genres, Genre{ID: id, Name: name})
	}
	sort.Slice(genres, func(i, j int) bool {
		return genres[i].Name < genres[j].Name
	})
	return genres
}

// LanguageName returns the display name for a language code.
// Unmapped codes are returned upper-cased.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}
