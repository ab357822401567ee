package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Movie is a catalog title as returned by the remote catalog.
// Fields the client does not model are kept in Extra so a record
// survives a persist/reload cycle field-for-field.
type Movie struct {
	ID               int64   `json:"id" yaml:"id"`
	Title            string  `json:"title" yaml:"title"`
	OriginalTitle    string  `json:"original_title,omitempty" yaml:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty" yaml:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty" yaml:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty" yaml:"release_date,omitempty"` // YYYY-MM-DD
	VoteAverage      float64 `json:"vote_average,omitempty" yaml:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty" yaml:"vote_count,omitempty"`
	Popularity       float64 `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty" yaml:"original_language,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty"`
	Runtime          int     `json:"runtime,omitempty" yaml:"runtime,omitempty"` // minutes, details endpoint only

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// movieFields lists the JSON keys Movie models explicitly.
var movieFields = []string{
	"id", "title", "original_title", "overview", "poster_path", "backdrop_path",
	"release_date", "vote_average", "vote_count", "popularity", "original_language",
	"genre_ids", "runtime",
}

// movieJSON drops the custom (un)marshalers to avoid recursion.
type movieJSON Movie

// UnmarshalJSON decodes the modelled fields and stashes the rest in Extra.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var decoded movieJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range movieFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		decoded.Extra = raw
	}

	*m = Movie(decoded)
	return nil
}

// MarshalJSON encodes the modelled fields merged with Extra.
// Modelled fields take precedence over Extra keys of the same name.
func (m Movie) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(movieJSON(m))
	if err != nil || len(m.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Clone returns a copy of m that shares no slices or maps with it
func (m Movie) Clone() Movie {
	m.GenreIDs = slices.Clone(m.GenreIDs)
	if m.Extra != nil {
		extra := make(map[string]json.RawMessage, len(m.Extra))
		for k, v := range m.Extra {
			extra[k] = slices.Clone(v)
		}
		m.Extra = extra
	}
	return m
}

// Year returns the release year parsed from ReleaseDate (0 if unknown)
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Decade returns the release decade label, e.g. "1990s" (empty if unknown)
func (m Movie) Decade() string {
	year := m.Year()
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%ds", year/10*10)
}

// PosterURL joins the poster path onto an image base URL
func (m Movie) PosterURL(imageBase string) string {
	if m.PosterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBase, "/") + m.PosterPath
}

// PageURL returns the movie's catalog web page
func (m Movie) PageURL() string {
	return "https://www.themoviedb.org/movie/" + strconv.FormatInt(m.ID, 10)
}

// FormattedRating returns the rating as "★ 8.4"
func (m Movie) FormattedRating() string {
	return fmt.Sprintf("★ %.1f", m.VoteAverage)
}

// FormattedRuntime returns the runtime in a human-readable format
func (m Movie) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Description returns secondary info for list display ("2010 · ★ 8.4 · 2h 28m")
func (m Movie) Description() string {
	var parts []string
	if y := m.Year(); y > 0 {
		parts = append(parts, strconv.Itoa(y))
	}
	parts = append(parts, m.FormattedRating())
	if rt := m.FormattedRuntime(); rt != "" {
		parts = append(parts, rt)
	}
	return strings.Join(parts, " · ")
}

// GenreStat is one entry of the top-genres aggregate
type GenreStat struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LanguageStat is one entry of the top-languages aggregate
type LanguageStat struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DecadeStat is one entry of the top-decades aggregate
type DecadeStat struct {
	Decade string `json:"decade"`
	Count  int    `json:"count"`
}

// Stats is the aggregate pulled back from the analytics backend after a sync
type Stats struct {
	TopGenres    []GenreStat
	TopLanguages []LanguageStat
	TopDecades   []DecadeStat
	TotalLikes   int
}

// IsEmpty reports whether the backend had nothing to aggregate
func (s Stats) IsEmpty() bool {
	return len(s.TopGenres) == 0 && len(s.TopLanguages) == 0 && len(s.TopDecades) == 0
}
