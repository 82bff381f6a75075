package catalog

import (
	"context"
	"time"

	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/repository"
)

// PersonInput carries the writable fields of a staff member.
type PersonInput struct {
	ID            int64
	NameRu        string
	NameEn        string
	PosterURL     string
	Birthday      *time.Time
	BirthPlaceID  *int64
	ProfessionIDs []int64
}

func (s *Service) ListPersons(ctx context.Context, page repository.Page) ([]models.Person, int, error) {
	return s.persons.List(ctx, page)
}

func (s *Service) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	return s.persons.GetByID(ctx, id)
}

func (s *Service) buildPerson(ctx context.Context, in PersonInput) (*models.Person, error) {
	person := &models.Person{
		ID:           in.ID,
		NameRu:       in.NameRu,
		NameEn:       in.NameEn,
		PosterURL:    in.PosterURL,
		Birthday:     in.Birthday,
		BirthPlaceID: in.BirthPlaceID,
	}

	if in.BirthPlaceID != nil {
		c, err := s.countries.GetByID(ctx, *in.BirthPlaceID)
		if err != nil {
			return nil, referenceError(err)
		}
		person.BirthPlace = c
	}

	professions, err := s.professions.GetByIDs(ctx, in.ProfessionIDs)
	if err != nil {
		return nil, referenceError(err)
	}
	person.Professions = professions
	return person, nil
}

func (s *Service) CreatePerson(ctx context.Context, in PersonInput) (*models.Person, error) {
	in.ID = 0
	person, err := s.buildPerson(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.persons.Create(ctx, person); err != nil {
		return nil, err
	}
	s.log.WithField("person_id", person.ID).Info("person created")
	return person, nil
}

func (s *Service) UpdatePerson(ctx context.Context, in PersonInput) (*models.Person, error) {
	person, err := s.buildPerson(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.persons.Update(ctx, person); err != nil {
		return nil, err
	}
	return s.persons.GetByID(ctx, person.ID)
}

func (s *Service) DeletePerson(ctx context.Context, id int64) error {
	return s.persons.Delete(ctx, id)
}

func (s *Service) PersonMovies(ctx context.Context, personID int64) ([]models.Movie, error) {
	return s.persons.ListMovies(ctx, personID)
}

// SetPersonMovies replaces the filmography and returns it.
func (s *Service) SetPersonMovies(ctx context.Context, personID int64, movieIDs []int64) ([]models.Movie, error) {
	if err := s.persons.SetMovies(ctx, personID, movieIDs); err != nil {
		return nil, err
	}
	return s.persons.ListMovies(ctx, personID)
}

func (s *Service) ClearPersonMovies(ctx context.Context, personID int64) error {
	return s.persons.SetMovies(ctx, personID, nil)
}
