package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type PlacesStore interface {
	Create(context.Context, *Place) error
	GetByID(context.Context, int64) (*Place, error)
	List(context.Context, PlaceFilter) ([]Place, int, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Place, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountUpvotesReceived(ctx context.Context, userID int64) (int, error)
	SetVoteCounts(ctx context.Context, placeID int64, upvotes, downvotes int, score float64) error
	SetStatus(ctx context.Context, placeID int64, status string) error
	SetReportCount(ctx context.Context, placeID int64, count int) error
	SetReportState(ctx context.Context, placeID int64, count int, status string) error
	SetVisitStats(ctx context.Context, placeID int64, confirmations int, verifiedAt time.Time) error
	Summaries(ctx context.Context, ids []int64) (map[int64]PlaceSummary, error)
}

type CommentsStore interface {
	Create(context.Context, *Comment) error
	GetByID(context.Context, int64) (*Comment, error)
	ListVisible(ctx context.Context, placeID int64, sort string, page, limit int) ([]Comment, int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	IncrementUpvotes(ctx context.Context, commentID int64) (int, error)
	SetStatus(ctx context.Context, commentID int64, status string) error
	SetReportCount(ctx context.Context, commentID int64, count int) error
	SetReportState(ctx context.Context, commentID int64, count int, status string) error
	Summaries(ctx context.Context, ids []int64) (map[int64]CommentSummary, error)
}

type VotesStore interface {
	Get(ctx context.Context, userID, placeID int64) (*Vote, error)
	Create(context.Context, *Vote) error
	SetValue(ctx context.Context, userID, placeID int64, value int) error
	CountByPlace(ctx context.Context, placeID int64) (upvotes, downvotes int, err error)
}

type ReportsStore interface {
	Create(context.Context, *Report) error
	GetByID(context.Context, int64) (*Report, error)
	CountOpen(ctx context.Context, targetType string, targetID int64) (int, error)
	ListOpen(ctx context.Context, limit int) ([]Report, error)
	Close(ctx context.Context, reportID int64, status, actionTaken string, reviewedBy *int64) error
	CloseAllOpen(ctx context.Context, targetType string, targetID int64, status, actionTaken string, reviewedBy *int64) error
}

type ModerationActionsStore interface {
	Create(context.Context, *ModerationAction) error
	ListByTarget(ctx context.Context, targetType string, targetID int64, limit int) ([]ModerationAction, error)
}

type VisitsStore interface {
	Create(ctx context.Context, userID, placeID int64) error
	CountByPlace(ctx context.Context, placeID int64) (int, error)
}

type SavedPlacesStore interface {
	Exists(ctx context.Context, userID, placeID int64) (bool, error)
	Add(ctx context.Context, userID, placeID int64) error
	Remove(ctx context.Context, userID, placeID int64) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]SavedPlace, error)
}

type UsersStore interface {
	Create(context.Context, *User) error
	GetByID(context.Context, int64) (*User, error)
	GetByUsername(context.Context, string) (*User, error)
}

type FeedsStore interface {
	ListTrending(ctx context.Context, city string, limit int) ([]FeedPlace, error)
	ListRecent(ctx context.Context, city string, limit int) ([]FeedPlace, error)
	ListHiddenGems(ctx context.Context, city string, limit int) ([]FeedPlace, error)
	ListActiveDiscussions(ctx context.Context, city string, limit int) ([]FeedPlace, error)
	ListTopPlaces(ctx context.Context, city string, limit int) ([]FeedPlace, error)
}

type Storage struct {
	Users    UsersStore
	Places   PlacesStore
	Comments CommentsStore
	Votes    VotesStore
	Reports  ReportsStore
	Actions  ModerationActionsStore
	Visits   VisitsStore
	Saved    SavedPlacesStore
	Feeds    FeedsStore
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:    &UsersRepository{db},
		Places:   &PlacesRepository{db},
		Comments: &CommentsRepository{db},
		Votes:    &VotesRepository{db},
		Reports:  &ReportsRepository{db},
		Actions:  &ModerationActionsRepository{db},
		Visits:   &VisitsRepository{db},
		Saved:    &SavedPlacesRepository{db},
		Feeds:    &FeedsRepository{db},
	}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
