// Package storetest provides in-memory implementations of the store
// interfaces for service tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"whereto/internal/store"
)

type pairKey struct {
	userID  int64
	placeID int64
}

type data struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*store.User
	places   map[int64]*store.Place
	comments map[int64]*store.Comment
	votes    map[pairKey]*store.Vote
	reports  map[int64]*store.Report
	actions  []store.ModerationAction
	visits   map[pairKey]time.Time
	saved    map[pairKey]time.Time
}

// Store bundles in-memory repositories over one shared data set.
type Store struct {
	d        *data
	Users    *Users
	Places   *Places
	Comments *Comments
	Votes    *Votes
	Reports  *Reports
	Actions  *Actions
	Visits   *Visits
	Saved    *Saved
	Feeds    *Feeds
}

func New() *Store {
	d := &data{
		users:    make(map[int64]*store.User),
		places:   make(map[int64]*store.Place),
		comments: make(map[int64]*store.Comment),
		votes:    make(map[pairKey]*store.Vote),
		reports:  make(map[int64]*store.Report),
		visits:   make(map[pairKey]time.Time),
		saved:    make(map[pairKey]time.Time),
	}
	return &Store{
		d:        d,
		Users:    &Users{d},
		Places:   &Places{d},
		Comments: &Comments{d},
		Votes:    &Votes{d},
		Reports:  &Reports{d},
		Actions:  &Actions{d},
		Visits:   &Visits{d},
		Saved:    &Saved{d},
		Feeds:    &Feeds{d},
	}
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

// SeedPlace inserts a place directly, defaulting to approved.
func (s *Store) SeedPlace(place store.Place) *store.Place {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if place.ID == 0 {
		place.ID = s.d.id()
	}
	if place.Status == "" {
		place.Status = store.PlaceStatusApproved
	}
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}
	copied := place
	s.d.places[place.ID] = &copied
	return &copied
}

// SeedComment inserts a comment directly, defaulting to active.
func (s *Store) SeedComment(comment store.Comment) *store.Comment {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if comment.ID == 0 {
		comment.ID = s.d.id()
	}
	if comment.Status == "" {
		comment.Status = store.CommentStatusActive
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	copied := comment
	s.d.comments[comment.ID] = &copied
	return &copied
}

// Place returns a snapshot of a stored place.
func (s *Store) Place(id int64) store.Place {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return *s.d.places[id]
}

// Comment returns a snapshot of a stored comment.
func (s *Store) Comment(id int64) store.Comment {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return *s.d.comments[id]
}

// Report returns a snapshot of a stored report.
func (s *Store) Report(id int64) store.Report {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return *s.d.reports[id]
}

// AuditLog returns all recorded moderation actions in insertion order.
func (s *Store) AuditLog() []store.ModerationAction {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]store.ModerationAction, len(s.d.actions))
	copy(out, s.d.actions)
	return out
}

// Users implements store.UsersStore.
type Users struct{ d *data }

func (r *Users) Create(ctx context.Context, user *store.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	user.Username = strings.ToLower(user.Username)
	for _, u := range r.d.users {
		if u.Username == user.Username {
			return store.ErrDuplicateUsername
		}
	}
	user.ID = r.d.id()
	if user.Role == "" {
		user.Role = store.RoleUser
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.d.users[user.ID] = &copied
	return nil
}

func (r *Users) GetByID(ctx context.Context, userID int64) (*store.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	user, ok := r.d.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *Users) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, user := range r.d.users {
		if user.Username == strings.ToLower(username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

// Places implements store.PlacesStore.
type Places struct{ d *data }

func (r *Places) Create(ctx context.Context, place *store.Place) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	place.ID = r.d.id()
	place.CreatedAt = time.Now()
	slug, err := store.EncodeSlug(place.ID)
	if err != nil {
		return err
	}
	place.Slug = slug
	copied := *place
	r.d.places[place.ID] = &copied
	return nil
}

func (r *Places) GetByID(ctx context.Context, placeID int64) (*store.Place, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	place, ok := r.d.places[placeID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *place
	return &copied, nil
}

func (r *Places) List(ctx context.Context, filter store.PlaceFilter) ([]store.Place, int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var matched []store.Place
	for _, place := range r.d.places {
		if place.City != filter.City || place.Status != store.PlaceStatusApproved {
			continue
		}
		if filter.Category != "" && place.Category != filter.Category {
			continue
		}
		matched = append(matched, *place)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Places) ListByUser(ctx context.Context, userID int64, limit int) ([]store.Place, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var matched []store.Place
	for _, place := range r.d.places {
		if place.CreatedBy == userID && place.Status != store.PlaceStatusRemoved {
			matched = append(matched, *place)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *Places) CountByUser(ctx context.Context, userID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	count := 0
	for _, place := range r.d.places {
		if place.CreatedBy == userID && place.Status != store.PlaceStatusRemoved {
			count++
		}
	}
	return count, nil
}

func (r *Places) CountUpvotesReceived(ctx context.Context, userID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	sum := 0
	for _, place := range r.d.places {
		if place.CreatedBy == userID && place.Status != store.PlaceStatusRemoved {
			sum += place.Upvotes
		}
	}
	return sum, nil
}

func (r *Places) SetVoteCounts(ctx context.Context, placeID int64, upvotes, downvotes int, score float64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	place, ok := r.d.places[placeID]
	if !ok {
		return store.ErrNotFound
	}
	place.Upvotes = upvotes
	place.Downvotes = downvotes
	place.Score = score
	return nil
}

func (r *Places) SetStatus(ctx context.Context, placeID int64, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	place, ok := r.d.places[placeID]
	if !ok {
		return store.ErrNotFound
	}
	place.Status = status
	return nil
}

func (r *Places) SetReportCount(ctx context.Context, placeID int64, count int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if place, ok := r.d.places[placeID]; ok {
		place.ReportCount = count
	}
	return nil
}

func (r *Places) SetReportState(ctx context.Context, placeID int64, count int, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if place, ok := r.d.places[placeID]; ok {
		place.ReportCount = count
		place.Status = status
	}
	return nil
}

func (r *Places) SetVisitStats(ctx context.Context, placeID int64, confirmations int, verifiedAt time.Time) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if place, ok := r.d.places[placeID]; ok {
		place.VisitConfirmations = confirmations
		place.LastVerifiedAt = &verifiedAt
	}
	return nil
}

func (r *Places) Summaries(ctx context.Context, ids []int64) (map[int64]store.PlaceSummary, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	summaries := make(map[int64]store.PlaceSummary)
	for _, id := range ids {
		if place, ok := r.d.places[id]; ok {
			summaries[id] = store.PlaceSummary{
				ID:          place.ID,
				Name:        place.Name,
				City:        place.City,
				Category:    place.Category,
				Status:      place.Status,
				ReportCount: place.ReportCount,
			}
		}
	}
	return summaries, nil
}

// Comments implements store.CommentsStore.
type Comments struct{ d *data }

func (r *Comments) Create(ctx context.Context, comment *store.Comment) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	comment.ID = r.d.id()
	comment.Status = store.CommentStatusActive
	comment.CreatedAt = time.Now()
	copied := *comment
	r.d.comments[comment.ID] = &copied
	return nil
}

func (r *Comments) GetByID(ctx context.Context, commentID int64) (*store.Comment, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	comment, ok := r.d.comments[commentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *Comments) ListVisible(ctx context.Context, placeID int64, sortMode string, page, limit int) ([]store.Comment, int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var matched []store.Comment
	for _, comment := range r.d.comments {
		if comment.PlaceID == placeID && (comment.Status == "" || comment.Status == store.CommentStatusActive) {
			matched = append(matched, *comment)
		}
	}
	if sortMode == store.CommentSortRecent {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Upvotes != matched[j].Upvotes {
				return matched[i].Upvotes > matched[j].Upvotes
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Comments) CountByUser(ctx context.Context, userID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	count := 0
	for _, comment := range r.d.comments {
		if comment.UserID == userID && comment.Status != store.CommentStatusRemoved {
			count++
		}
	}
	return count, nil
}

func (r *Comments) IncrementUpvotes(ctx context.Context, commentID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	comment, ok := r.d.comments[commentID]
	if !ok {
		return 0, store.ErrNotFound
	}
	comment.Upvotes++
	return comment.Upvotes, nil
}

func (r *Comments) SetStatus(ctx context.Context, commentID int64, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	comment, ok := r.d.comments[commentID]
	if !ok {
		return store.ErrNotFound
	}
	comment.Status = status
	return nil
}

func (r *Comments) SetReportCount(ctx context.Context, commentID int64, count int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if comment, ok := r.d.comments[commentID]; ok {
		comment.ReportCount = count
	}
	return nil
}

func (r *Comments) SetReportState(ctx context.Context, commentID int64, count int, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if comment, ok := r.d.comments[commentID]; ok {
		comment.ReportCount = count
		comment.Status = status
	}
	return nil
}

func (r *Comments) Summaries(ctx context.Context, ids []int64) (map[int64]store.CommentSummary, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	summaries := make(map[int64]store.CommentSummary)
	for _, id := range ids {
		if comment, ok := r.d.comments[id]; ok {
			summaries[id] = store.CommentSummary{
				ID:          comment.ID,
				PlaceID:     comment.PlaceID,
				Text:        comment.Text,
				Username:    comment.Username,
				Status:      comment.Status,
				ReportCount: comment.ReportCount,
			}
		}
	}
	return summaries, nil
}

// Votes implements store.VotesStore.
type Votes struct{ d *data }

func (r *Votes) Get(ctx context.Context, userID, placeID int64) (*store.Vote, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	vote, ok := r.d.votes[pairKey{userID, placeID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *vote
	return &copied, nil
}

func (r *Votes) Create(ctx context.Context, vote *store.Vote) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := pairKey{vote.UserID, vote.PlaceID}
	if _, ok := r.d.votes[key]; ok {
		return store.ErrConflict
	}
	vote.CreatedAt = time.Now()
	copied := *vote
	r.d.votes[key] = &copied
	return nil
}

func (r *Votes) SetValue(ctx context.Context, userID, placeID int64, value int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	vote, ok := r.d.votes[pairKey{userID, placeID}]
	if !ok {
		return store.ErrNotFound
	}
	vote.Value = value
	return nil
}

func (r *Votes) CountByPlace(ctx context.Context, placeID int64) (int, int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	upvotes, downvotes := 0, 0
	for key, vote := range r.d.votes {
		if key.placeID != placeID {
			continue
		}
		if vote.Value == store.VoteUp {
			upvotes++
		} else {
			downvotes++
		}
	}
	return upvotes, downvotes, nil
}

// Reports implements store.ReportsStore.
type Reports struct{ d *data }

func (r *Reports) Create(ctx context.Context, report *store.Report) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, existing := range r.d.reports {
		if existing.ReporterID == report.ReporterID &&
			existing.TargetType == report.TargetType &&
			existing.TargetID == report.TargetID {
			return store.ErrConflict
		}
	}
	report.ID = r.d.id()
	report.Status = store.ReportStatusOpen
	report.ActionTaken = "none"
	report.CreatedAt = time.Now()
	copied := *report
	r.d.reports[report.ID] = &copied
	return nil
}

func (r *Reports) GetByID(ctx context.Context, reportID int64) (*store.Report, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	report, ok := r.d.reports[reportID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *report
	return &copied, nil
}

func (r *Reports) CountOpen(ctx context.Context, targetType string, targetID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	count := 0
	for _, report := range r.d.reports {
		if report.TargetType == targetType && report.TargetID == targetID && report.Status == store.ReportStatusOpen {
			count++
		}
	}
	return count, nil
}

func (r *Reports) ListOpen(ctx context.Context, limit int) ([]store.Report, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var open []store.Report
	for _, report := range r.d.reports {
		if report.Status == store.ReportStatusOpen {
			open = append(open, *report)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].ID > open[j].ID
		}
		return open[i].CreatedAt.After(open[j].CreatedAt)
	})
	if len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}

func (r *Reports) Close(ctx context.Context, reportID int64, status, actionTaken string, reviewedBy *int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	report, ok := r.d.reports[reportID]
	if !ok || report.Status != store.ReportStatusOpen {
		return nil
	}
	now := time.Now()
	report.Status = status
	report.ActionTaken = actionTaken
	report.ReviewedAt = &now
	report.ReviewedBy = reviewedBy
	return nil
}

func (r *Reports) CloseAllOpen(ctx context.Context, targetType string, targetID int64, status, actionTaken string, reviewedBy *int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	now := time.Now()
	for _, report := range r.d.reports {
		if report.TargetType == targetType && report.TargetID == targetID && report.Status == store.ReportStatusOpen {
			report.Status = status
			report.ActionTaken = actionTaken
			report.ReviewedAt = &now
			report.ReviewedBy = reviewedBy
		}
	}
	return nil
}

// Actions implements store.ModerationActionsStore.
type Actions struct{ d *data }

func (r *Actions) Create(ctx context.Context, action *store.ModerationAction) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	action.ID = r.d.id()
	action.CreatedAt = time.Now()
	r.d.actions = append(r.d.actions, *action)
	return nil
}

func (r *Actions) ListByTarget(ctx context.Context, targetType string, targetID int64, limit int) ([]store.ModerationAction, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var matched []store.ModerationAction
	for i := len(r.d.actions) - 1; i >= 0 && len(matched) < limit; i-- {
		action := r.d.actions[i]
		if action.TargetType == targetType && action.TargetID == targetID {
			matched = append(matched, action)
		}
	}
	return matched, nil
}

// Visits implements store.VisitsStore.
type Visits struct{ d *data }

func (r *Visits) Create(ctx context.Context, userID, placeID int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := pairKey{userID, placeID}
	if _, ok := r.d.visits[key]; ok {
		return store.ErrConflict
	}
	r.d.visits[key] = time.Now()
	return nil
}

func (r *Visits) CountByPlace(ctx context.Context, placeID int64) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	count := 0
	for key := range r.d.visits {
		if key.placeID == placeID {
			count++
		}
	}
	return count, nil
}

// Saved implements store.SavedPlacesStore.
type Saved struct{ d *data }

func (r *Saved) Exists(ctx context.Context, userID, placeID int64) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	_, ok := r.d.saved[pairKey{userID, placeID}]
	return ok, nil
}

func (r *Saved) Add(ctx context.Context, userID, placeID int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := pairKey{userID, placeID}
	if _, ok := r.d.saved[key]; !ok {
		r.d.saved[key] = time.Now()
	}
	return nil
}

func (r *Saved) Remove(ctx context.Context, userID, placeID int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	delete(r.d.saved, pairKey{userID, placeID})
	return nil
}

func (r *Saved) ListByUser(ctx context.Context, userID int64, limit int) ([]store.SavedPlace, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var saved []store.SavedPlace
	for key, savedAt := range r.d.saved {
		if key.userID != userID {
			continue
		}
		place, ok := r.d.places[key.placeID]
		if !ok {
			continue
		}
		saved = append(saved, store.SavedPlace{
			PlaceID:   place.ID,
			Slug:      place.Slug,
			Name:      place.Name,
			City:      place.City,
			Category:  place.Category,
			Score:     place.Score,
			ImageURLs: place.ImageURLs,
			SavedAt:   savedAt,
		})
	}
	sort.Slice(saved, func(i, j int) bool {
		return saved[i].SavedAt.After(saved[j].SavedAt)
	})
	if len(saved) > limit {
		saved = saved[:limit]
	}
	return saved, nil
}

// Feeds implements store.FeedsStore.
type Feeds struct{ d *data }

func (r *Feeds) ListTrending(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	return r.listFiltered(city, limit, nil, func(a, b store.FeedPlace) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Upvotes > b.Upvotes
	})
}

func (r *Feeds) ListRecent(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	return r.listFiltered(city, limit, nil, func(a, b store.FeedPlace) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *Feeds) ListHiddenGems(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	gem := func(p store.FeedPlace) bool {
		return p.Score >= 0.8 && p.Upvotes+p.Downvotes <= 10
	}
	return r.listFiltered(city, limit, gem, func(a, b store.FeedPlace) bool {
		return a.Score > b.Score
	})
}

func (r *Feeds) ListActiveDiscussions(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	last := make(map[int64]time.Time)
	for _, comment := range r.d.comments {
		if comment.Status != "" && comment.Status != store.CommentStatusActive {
			continue
		}
		if comment.CreatedAt.After(last[comment.PlaceID]) {
			last[comment.PlaceID] = comment.CreatedAt
		}
	}

	var discussed []store.FeedPlace
	for placeID := range last {
		place, ok := r.d.places[placeID]
		if !ok || place.City != city || place.Status != store.PlaceStatusApproved {
			continue
		}
		discussed = append(discussed, r.toFeedPlace(place))
	}
	sort.Slice(discussed, func(i, j int) bool {
		return last[discussed[i].ID].After(last[discussed[j].ID])
	})
	if len(discussed) > limit {
		discussed = discussed[:limit]
	}
	return discussed, nil
}

func (r *Feeds) ListTopPlaces(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	return r.listFiltered(city, limit, nil, func(a, b store.FeedPlace) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.VisitConfirmations != b.VisitConfirmations {
			return a.VisitConfirmations > b.VisitConfirmations
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *Feeds) listFiltered(city string, limit int, keep func(store.FeedPlace) bool, less func(a, b store.FeedPlace) bool) ([]store.FeedPlace, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	var matched []store.FeedPlace
	for _, place := range r.d.places {
		if place.City != city || place.Status != store.PlaceStatusApproved {
			continue
		}
		fp := r.toFeedPlace(place)
		if keep != nil && !keep(fp) {
			continue
		}
		matched = append(matched, fp)
	}
	sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *Feeds) toFeedPlace(place *store.Place) store.FeedPlace {
	comments := 0
	for _, comment := range r.d.comments {
		if comment.PlaceID == place.ID && (comment.Status == "" || comment.Status == store.CommentStatusActive) {
			comments++
		}
	}
	return store.FeedPlace{
		ID:                 place.ID,
		Slug:               place.Slug,
		Name:               place.Name,
		City:               place.City,
		Category:           place.Category,
		Score:              place.Score,
		Tags:               place.Tags,
		ImageURLs:          place.ImageURLs,
		Upvotes:            place.Upvotes,
		Downvotes:          place.Downvotes,
		VisitConfirmations: place.VisitConfirmations,
		CommentCount:       comments,
		CreatedAt:          place.CreatedAt,
	}
}
