package app

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"burgerreview/internal/cache"
	"burgerreview/internal/logger"
	"burgerreview/internal/model"
	"burgerreview/internal/repository"
	"burgerreview/internal/testutil"
)

func TestReviewService_PhotoURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com")
	burger := env.seedBurger(t, "BurgerCo", "Classic")

	_, err := env.reviews.CreateReview(ctx, CreateReviewInput{
		UserID: alice.ID, BurgerID: burger.ID, Rating: 4, PhotoURL: strPtr("not a url"),
	})
	assert.ErrorIs(t, err, ErrInvalidPhotoURL)
	assert.Zero(t, env.count(t, &model.Review{}))
	assert.Empty(t, env.publisher.events)

	review, err := env.reviews.CreateReview(ctx, CreateReviewInput{
		UserID: alice.ID, BurgerID: burger.ID, Rating: 4, PhotoURL: strPtr("https://example.com/a.jpg"),
	})
	require.NoError(t, err)

	stored, err := env.reviews.ListReviewsForBurger(ctx, burger.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].PhotoURL)
	assert.Equal(t, "https://example.com/a.jpg", *stored[0].PhotoURL)
	assert.Equal(t, review.ID, stored[0].ID)
}

func TestReviewService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com")
	burger := env.seedBurger(t, "BurgerCo", "Classic")

	tests := []struct {
		name    string
		input   CreateReviewInput
		wantErr error
	}{
		{name: "rating too low", input: CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID, Rating: 0}, wantErr: ErrInvalidRating},
		{name: "rating too high", input: CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID, Rating: 6}, wantErr: ErrInvalidRating},
		{name: "missing burger id", input: CreateReviewInput{UserID: alice.ID, Rating: 3}, wantErr: ErrInvalidInput},
		{name: "unknown user", input: CreateReviewInput{UserID: alice.ID + 50, BurgerID: burger.ID, Rating: 3}, wantErr: ErrUserNotFound},
		{name: "unknown burger", input: CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID + 50, Rating: 3}, wantErr: ErrBurgerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.reviews.CreateReview(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, env.count(t, &model.Review{}))
}

func TestReviewService_ListIsPerBurger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com")
	bob := env.register(t, "bob", "bob@example.com")
	classic := env.seedBurger(t, "BurgerCo", "Classic")
	deluxe, err := env.catalog.CreateBurger(ctx, CreateBurgerInput{Name: "Deluxe", ChainID: classic.ChainID})
	require.NoError(t, err)

	mk := func(userID, burgerID uint, rating int) uint {
		r, err := env.reviews.CreateReview(ctx, CreateReviewInput{UserID: userID, BurgerID: burgerID, Rating: rating})
		require.NoError(t, err)
		return r.ID
	}
	want := []uint{mk(alice.ID, classic.ID, 5), mk(bob.ID, classic.ID, 3)}
	mk(bob.ID, deluxe.ID, 1)

	// prime the cache, then make sure a new review shows up
	_, err = env.reviews.ListReviewsForBurger(ctx, classic.ID)
	require.NoError(t, err)
	want = append(want, mk(alice.ID, classic.ID, 4))

	got, err := env.reviews.ListReviewsForBurger(ctx, classic.ID)
	require.NoError(t, err)
	ids := make([]uint, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
		assert.Equal(t, classic.ID, r.BurgerID)
		require.NotNil(t, r.User)
	}
	assert.Equal(t, want, ids)
	assert.Equal(t, "alice", got[0].User.Username)
	assert.Equal(t, "bob", got[1].User.Username)
}

func TestReviewService_PublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com")
	burger := env.seedBurger(t, "BurgerCo", "Classic")

	review, err := env.reviews.CreateReview(ctx, CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID, Rating: 5, Comment: strPtr("great")})
	require.NoError(t, err)
	require.NotNil(t, review.User)
	assert.Equal(t, "alice", review.User.Username)

	require.Len(t, env.publisher.events, 1)
	evt := env.publisher.events[0]
	assert.Equal(t, review.ID, evt.ReviewID)
	assert.Equal(t, burger.ID, evt.BurgerID)
	assert.Equal(t, 5, evt.Rating)

	env.publisher.err = errors.New("broker down")
	_, err = env.reviews.CreateReview(ctx, CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID, Rating: 3})
	assert.NoError(t, err, "publish failure must not fail the request")
	assert.Equal(t, int64(2), env.count(t, &model.Review{}))
}

func TestReviewService_StoreFailureRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	client, _ := testutil.NewRedis(t)
	publisher := &recordingPublisher{}
	svc := NewReviewService(repository.NewStore(db), cache.NewListingCache(client, time.Minute), publisher, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE `users`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(1, "alice", "alice@example.com", "hash", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `burgers` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `reviews`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	review, err := svc.CreateReview(context.Background(), CreateReviewInput{
		UserID: 1, BurgerID: 1, Rating: 4, PhotoURL: strPtr("https://example.com/a.jpg"),
	})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, review)
	assert.Empty(t, publisher.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewService_ReviewCommittedDuringCacheFillIsListed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "alice@example.com")
	burger := env.seedBurger(t, "BurgerCo", "Classic")

	racing := &interleavingCache{ListingCache: env.cache}
	svc := NewReviewService(env.store, racing, env.publisher, logger.Nop())
	racing.beforeFill = func() {
		_, err := svc.CreateReview(ctx, CreateReviewInput{UserID: alice.ID, BurgerID: burger.ID, Rating: 5})
		require.NoError(t, err)
	}

	stale, err := svc.ListReviewsForBurger(ctx, burger.ID)
	require.NoError(t, err)
	assert.Empty(t, stale, "the listing read before the commit")
	assert.Equal(t, int64(1), env.count(t, &model.Review{}))

	fresh, err := svc.ListReviewsForBurger(ctx, burger.ID)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 5, fresh[0].Rating)
}
