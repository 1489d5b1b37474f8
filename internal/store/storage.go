package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		CreateAndInvite(ctx context.Context, user *User, orgName, token string, exp time.Duration) error
		Activate(ctx context.Context, token string) error
		UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error
		ClearRefreshToken(ctx context.Context, userID int64) error
		UpdateUser(ctx context.Context, userID int64, updateData map[string]interface{}) error
	}
	Venues interface {
		Create(context.Context, *Venue) error
		GetByID(ctx context.Context, orgID, venueID int64) (*Venue, error)
		List(context.Context, VenueFilter) ([]Venue, error)
		Update(ctx context.Context, orgID, venueID int64, updateData map[string]interface{}) error
		Delete(ctx context.Context, orgID, venueID int64) error
		AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error
		RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error
	}
	Artists interface {
		Create(context.Context, *Artist) error
		GetByID(ctx context.Context, orgID, artistID int64) (*Artist, error)
		List(ctx context.Context, orgID int64) ([]Artist, error)
		Update(ctx context.Context, orgID, artistID int64, updateData map[string]interface{}) error
		Delete(ctx context.Context, orgID, artistID int64) error
		SetImageURL(ctx context.Context, artistID int64, imageURL string) error
	}
	Tours interface {
		Create(context.Context, *Tour) error
		GetByID(ctx context.Context, orgID, tourID int64) (*Tour, error)
		GetByShareCode(ctx context.Context, code string) (*Tour, error)
		List(ctx context.Context, orgID int64) ([]Tour, error)
		Update(ctx context.Context, orgID, tourID int64, updateData map[string]interface{}) error
		Delete(ctx context.Context, orgID, tourID int64) error
		SetShareCode(ctx context.Context, tourID int64, code string) error
		AddMember(ctx context.Context, tourID, userID int64, role string) error
		RemoveMember(ctx context.Context, tourID, userID int64) error
		IsMember(ctx context.Context, tourID, userID int64) (bool, error)
	}
	Shows interface {
		Create(context.Context, *Show) error
		GetByID(ctx context.Context, orgID, showID int64) (*Show, error)
		ListByTour(ctx context.Context, tourID int64) ([]Show, error)
		ListByDateRange(ctx context.Context, orgID int64, from, to time.Time) ([]Show, error)
		UpdateStatus(ctx context.Context, orgID, showID int64, status string) error
		Update(ctx context.Context, orgID, showID int64, updateData map[string]interface{}) error
		Delete(ctx context.Context, orgID, showID int64) error
	}
	Snapshots interface {
		Create(context.Context, *TicketSnapshot) error
		ListByShow(ctx context.Context, showID int64) ([]TicketSnapshot, error)
		LatestByShow(ctx context.Context, showID int64) (*TicketSnapshot, error)
	}
	Deals interface {
		Upsert(context.Context, *Deal) error
		GetByShow(ctx context.Context, showID int64) (*Deal, error)
		CreateSettlement(context.Context, *Settlement) error
		GetSettlementByShow(ctx context.Context, showID int64) (*Settlement, error)
		ListSettlementsByTour(ctx context.Context, tourID int64) ([]SettlementRow, error)
	}
	Activity interface {
		Log(context.Context, *Activity) error
		ListByOrg(ctx context.Context, orgID int64, limit int) ([]Activity, error)
	}
	PushTokens interface {
		Register(ctx context.Context, userID int64, token string) error
		Delete(ctx context.Context, userID int64, token string) error
		ListByOrg(ctx context.Context, orgID int64) ([]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Venues:     &VenuesStore{db},
		Artists:    &ArtistsStore{db},
		Tours:      &ToursStore{db},
		Shows:      &ShowsStore{db},
		Snapshots:  &SnapshotsStore{db},
		Deals:      &DealsStore{db},
		Activity:   &ActivityStore{db},
		PushTokens: &PushTokensStore{db},
	}
}
