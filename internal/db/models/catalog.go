package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Genre, Country, Profession and MovieType are flat dictionaries seeded by
// migrations and read-only over the API.

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

type Country struct {
	bun.BaseModel `bun:"table:countries,alias:c"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

type Profession struct {
	bun.BaseModel `bun:"table:professions,alias:pr"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// MovieType classifies a movie (feature film, series, cartoon...).
type MovieType struct {
	bun.BaseModel `bun:"table:types,alias:t"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// Movie is a catalog entry. NumberOfVotes and VotesScore are maintained by
// the vote operation and never written from request payloads.
type Movie struct {
	bun.BaseModel `bun:"table:movies,alias:m"`

	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	NameRu          string     `bun:"name_ru,notnull" json:"nameRu"`
	NameEn          string     `bun:"name_en" json:"nameEn"`
	PosterURL       string     `bun:"poster_url" json:"posterUrl"`
	TrailerURL      string     `bun:"trailer_url" json:"trailerUrl"`
	Description     string     `bun:"description" json:"description"`
	Slogan          string     `bun:"slogan" json:"slogan"`
	Year            int        `bun:"year" json:"year"`
	MovieLength     int        `bun:"movie_length" json:"movieLength"`
	RatingImdb      float64    `bun:"rating_imdb" json:"ratingImdb"`
	RatingKinopoisk float64    `bun:"rating_kinopoisk" json:"ratingKinopoisk"`
	NumberOfVotes   int64      `bun:"number_of_votes,notnull,default:0" json:"numberOfVotes"`
	VotesScore      int64      `bun:"votes_score,notnull,default:0" json:"votesScore"`
	TypeID          *int64     `bun:"type_id" json:"-"`
	Type            *MovieType `bun:"rel:belongs-to,join:type_id=id" json:"type,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Genres    []Genre   `bun:"m2m:movie_genres,join:Movie=Genre" json:"genres"`
	Countries []Country `bun:"m2m:movie_countries,join:Movie=Country" json:"countries"`
}

type MovieGenre struct {
	bun.BaseModel `bun:"table:movie_genres,alias:mg"`

	MovieID int64  `bun:"movie_id,pk"`
	Movie   *Movie `bun:"rel:belongs-to,join:movie_id=id,on_delete:CASCADE"`
	GenreID int64  `bun:"genre_id,pk"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id,on_delete:CASCADE"`
}

type MovieCountry struct {
	bun.BaseModel `bun:"table:movie_countries,alias:mc"`

	MovieID   int64    `bun:"movie_id,pk"`
	Movie     *Movie   `bun:"rel:belongs-to,join:movie_id=id,on_delete:CASCADE"`
	CountryID int64    `bun:"country_id,pk"`
	Country   *Country `bun:"rel:belongs-to,join:country_id=id,on_delete:CASCADE"`
}

// MovieVote records one user's score for one movie. The composite key
// enforces a single vote per user and movie.
type MovieVote struct {
	bun.BaseModel `bun:"table:movie_votes,alias:mv"`

	MovieID   int64     `bun:"movie_id,pk"`
	Movie     *Movie    `bun:"rel:belongs-to,join:movie_id=id,on_delete:CASCADE"`
	UserID    int64     `bun:"user_id,pk"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id,on_delete:CASCADE"`
	Score     int       `bun:"score,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Person is a member of a movie's staff (actor, director...).
type Person struct {
	bun.BaseModel `bun:"table:persons,alias:ps"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	NameRu       string     `bun:"name_ru,notnull" json:"nameRu"`
	NameEn       string     `bun:"name_en" json:"nameEn"`
	PosterURL    string     `bun:"poster_url" json:"posterUrl"`
	Birthday     *time.Time `bun:"birthday" json:"birthday,omitempty"`
	BirthPlaceID *int64     `bun:"birth_place_id" json:"-"`
	BirthPlace   *Country   `bun:"rel:belongs-to,join:birth_place_id=id" json:"birthPlace,omitempty"`

	Professions []Profession `bun:"m2m:person_professions,join:Person=Profession" json:"professions"`
}

type PersonProfession struct {
	bun.BaseModel `bun:"table:person_professions,alias:pp"`

	PersonID     int64       `bun:"person_id,pk"`
	Person       *Person     `bun:"rel:belongs-to,join:person_id=id,on_delete:CASCADE"`
	ProfessionID int64       `bun:"profession_id,pk"`
	Profession   *Profession `bun:"rel:belongs-to,join:profession_id=id,on_delete:CASCADE"`
}

type PersonMovie struct {
	bun.BaseModel `bun:"table:person_movies,alias:pm"`

	PersonID int64   `bun:"person_id,pk"`
	Person   *Person `bun:"rel:belongs-to,join:person_id=id,on_delete:CASCADE"`
	MovieID  int64   `bun:"movie_id,pk"`
	Movie    *Movie  `bun:"rel:belongs-to,join:movie_id=id,on_delete:CASCADE"`
}

// Review is a user-authored text attached to a movie.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	MovieID     int64     `bun:"movie_id,notnull" json:"movieId"`
	Movie       *Movie    `bun:"rel:belongs-to,join:movie_id=id,on_delete:CASCADE" json:"-"`
	AuthorID    int64     `bun:"author_id,notnull" json:"-"`
	Author      *User     `bun:"rel:belongs-to,join:author_id=id,on_delete:CASCADE" json:"author,omitempty"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Register registers join-table models so m2m relations resolve.
// It must run before any query touches a model with an m2m field.
func Register(db *bun.DB) {
	db.RegisterModel(
		(*UserPrivilege)(nil),
		(*MovieGenre)(nil),
		(*MovieCountry)(nil),
		(*PersonProfession)(nil),
		(*PersonMovie)(nil),
	)
}
