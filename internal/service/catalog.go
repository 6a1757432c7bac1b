package service

import (
	"context"
	"errors"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/idx"
)

// CategoryService, EventService and RatingService are thin persistence
// wrappers over the catalog repositories. Nested services verify the parent
// chain exists before touching children; a child reached through the wrong
// parent is treated as absent.

type CategoryService struct {
	Store store.Store
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.Store.Categories().ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.Store.Categories().GetCategoryByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, name, description, userID string) (domain.Category, error) {
	category := domain.Category{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		UserID:      userID,
	}
	if err := s.Store.Categories().CreateCategory(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) UpdateDescription(ctx context.Context, id, description string) (domain.Category, error) {
	if err := s.Store.Categories().UpdateCategoryDescription(ctx, id, description); err != nil {
		return domain.Category{}, err
	}
	return s.Store.Categories().GetCategoryByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.Store.Categories().DeleteCategory(ctx, id)
}

type EventService struct {
	Store store.Store
}

func (s *EventService) List(ctx context.Context, categoryID string) ([]domain.Event, error) {
	if _, err := s.Store.Categories().GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.Store.Events().ListEventsByCategory(ctx, categoryID)
}

func (s *EventService) Get(ctx context.Context, categoryID, eventID string) (domain.Event, error) {
	event, err := s.Store.Events().GetEventByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.CategoryID != categoryID {
		return domain.Event{}, store.ErrNotFound
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, categoryID string, e domain.Event, userID string) (domain.Event, error) {
	if _, err := s.Store.Categories().GetCategoryByID(ctx, categoryID); err != nil {
		return domain.Event{}, err
	}

	e.ID = idx.New().String()
	e.CategoryID = categoryID
	e.UserID = userID
	if err := s.Store.Events().CreateEvent(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (s *EventService) UpdateDescription(ctx context.Context, categoryID, eventID, description string) (domain.Event, error) {
	if _, err := s.Get(ctx, categoryID, eventID); err != nil {
		return domain.Event{}, err
	}
	if err := s.Store.Events().UpdateEventDescription(ctx, eventID, description); err != nil {
		return domain.Event{}, err
	}
	return s.Store.Events().GetEventByID(ctx, eventID)
}

func (s *EventService) Delete(ctx context.Context, categoryID, eventID string) error {
	if _, err := s.Get(ctx, categoryID, eventID); err != nil {
		return err
	}
	return s.Store.Events().DeleteEvent(ctx, eventID)
}

type RatingService struct {
	Store store.Store
}

func (s *RatingService) eventInCategory(ctx context.Context, categoryID, eventID string) error {
	event, err := s.Store.Events().GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CategoryID != categoryID {
		return store.ErrNotFound
	}
	return nil
}

func (s *RatingService) List(ctx context.Context, categoryID, eventID string) ([]domain.Rating, error) {
	if err := s.eventInCategory(ctx, categoryID, eventID); err != nil {
		return nil, err
	}
	return s.Store.Ratings().ListRatingsByEvent(ctx, eventID)
}

func (s *RatingService) Get(ctx context.Context, categoryID, eventID, ratingID string) (domain.Rating, error) {
	if err := s.eventInCategory(ctx, categoryID, eventID); err != nil {
		return domain.Rating{}, err
	}

	rating, err := s.Store.Ratings().GetRatingByID(ctx, ratingID)
	if err != nil {
		return domain.Rating{}, err
	}
	if rating.EventID != eventID {
		return domain.Rating{}, store.ErrNotFound
	}
	return rating, nil
}

func (s *RatingService) Create(ctx context.Context, categoryID, eventID string, stars int, userID string) (domain.Rating, error) {
	if err := s.eventInCategory(ctx, categoryID, eventID); err != nil {
		return domain.Rating{}, err
	}

	rating := domain.Rating{
		ID:      idx.New().String(),
		EventID: eventID,
		Stars:   stars,
		UserID:  userID,
	}
	if err := s.Store.Ratings().CreateRating(ctx, rating); err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

func (s *RatingService) UpdateStars(ctx context.Context, categoryID, eventID, ratingID string, stars int) (domain.Rating, error) {
	if _, err := s.Get(ctx, categoryID, eventID, ratingID); err != nil {
		return domain.Rating{}, err
	}
	if err := s.Store.Ratings().UpdateRatingStars(ctx, ratingID, stars); err != nil {
		return domain.Rating{}, err
	}
	return s.Store.Ratings().GetRatingByID(ctx, ratingID)
}

func (s *RatingService) Delete(ctx context.Context, categoryID, eventID, ratingID string) error {
	if _, err := s.Get(ctx, categoryID, eventID, ratingID); err != nil {
		return err
	}
	return s.Store.Ratings().DeleteRating(ctx, ratingID)
}

// IsNotFound reports whether err is the store's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
