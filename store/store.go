// Package store persists listings, users, favorites and inquiries.
package store

import (
	"ConnectSpace/models"
	"ConnectSpace/search"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	// ErrConflict reports a write whose precondition no longer holds.
	ErrConflict = errors.New("modified concurrently")
)

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	// Update writes only the given document paths of p.
	Update(ctx context.Context, p *models.Property, paths []string) error
	// UpdateVerification writes the moderation fields of p only if the stored
	// status is still from; otherwise it returns ErrConflict.
	UpdateVerification(ctx context.Context, p *models.Property, from models.VerificationStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Search returns one page of matches and the total match count.
	Search(ctx context.Context, q search.Query) ([]models.Property, int64, error)
	// Nearby returns listings around the query centre, nearest first.
	Nearby(ctx context.Context, q search.GeoQuery) ([]models.Property, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	IncrementInquiries(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error)
}

type FavoriteStore interface {
	Add(ctx context.Context, f *models.Favorite) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error)
	Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error
}

type InquiryStore interface {
	Create(ctx context.Context, i *models.Inquiry) error
	ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Inquiry, error)
}
