//go:build integration
// +build integration

// internal/services/integration_test.go
package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/database"
	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

type ListingServiceSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	cfg       *config.Config

	listings   *ListingService
	categories *CategoryService
	blogs      *BlogService
	feedback   *FeedbackService
	auth       *AuthService

	category models.Category
}

func (s *ListingServiceSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalogue_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(s.T(), err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), database.RunMigrations(db))

	s.cfg = &config.Config{}
	s.cfg.App.AnonymousWritePolicy = config.AnonymousWriteReject
	s.cfg.App.LoginURL = "/v1/auth/login"
	s.cfg.App.BlogViewMilestone = 100
	s.cfg.JWT.AccessTokenTTL = 1
	s.cfg.JWT.RefreshTokenTTL = 1

	notification := NewNotificationService(s.cfg)
	s.listings = NewListingService(db, s.cfg)
	s.categories = NewCategoryService(db, s.cfg)
	s.blogs = NewBlogService(db, s.cfg, notification)
	s.feedback = NewFeedbackService(db)
	s.auth = NewAuthService(db, s.cfg, notification)
}

func (s *ListingServiceSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *ListingServiceSuite) SetupTest() {
	// Each test starts from an empty catalog with one category.
	s.db.Exec("DELETE FROM versions")
	s.db.Exec("DELETE FROM listings")
	s.db.Exec("DELETE FROM blogs")
	s.db.Exec("DELETE FROM feedbacks")
	s.db.Exec("DELETE FROM categories")
	s.db.Exec("DELETE FROM users")

	s.category = models.Category{Name: "Электроника", Description: "Техника и гаджеты"}
	require.NoError(s.T(), s.db.Create(&s.category).Error)
}

func (s *ListingServiceSuite) newUser(email string, mutate func(*models.User)) *models.User {
	user := &models.User{Email: email, IsActive: true}
	require.NoError(s.T(), user.SetPassword("password1"))
	if mutate != nil {
		mutate(user)
	}
	require.NoError(s.T(), s.db.Create(user).Error)
	return user
}

func (s *ListingServiceSuite) newListing(owner *models.User, name string) *models.Listing {
	listing, err := s.listings.Create(owner, &CreateListingRequest{
		Name:       name,
		Price:      100,
		CategoryID: s.category.ID,
	})
	require.NoError(s.T(), err)
	return listing
}

func (s *ListingServiceSuite) TestCreateSetsOwnerAndUnpublished() {
	owner := s.newUser("owner@example.com", nil)

	listing := s.newListing(owner, "Столовый нож")

	require.NotNil(s.T(), listing.OwnerID)
	assert.Equal(s.T(), owner.ID, *listing.OwnerID)
	assert.False(s.T(), listing.IsPublished)
	assert.False(s.T(), listing.PublishedAt.IsZero())
}

func (s *ListingServiceSuite) TestCreateAnonymousRejected() {
	_, err := s.listings.Create(nil, &CreateListingRequest{
		Name:       "Столовый нож",
		Price:      100,
		CategoryID: s.category.ID,
	})
	assert.ErrorIs(s.T(), err, ErrAuthenticationRequired)

	var count int64
	s.db.Model(&models.Listing{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *ListingServiceSuite) TestCreateAnonymousRedirectPolicy() {
	s.cfg.App.AnonymousWritePolicy = config.AnonymousWriteRedirect
	defer func() { s.cfg.App.AnonymousWritePolicy = config.AnonymousWriteReject }()

	_, err := s.listings.Create(nil, &CreateListingRequest{
		Name:       "Столовый нож",
		Price:      100,
		CategoryID: s.category.ID,
	})
	assert.ErrorIs(s.T(), err, ErrLoginRequired)
}

func (s *ListingServiceSuite) TestCreateBannedNameRejected() {
	owner := s.newUser("owner@example.com", nil)

	_, err := s.listings.Create(owner, &CreateListingRequest{
		Name:       "Купи дешево биржу крипты",
		Price:      100,
		CategoryID: s.category.ID,
	})

	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	var count int64
	s.db.Model(&models.Listing{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *ListingServiceSuite) TestVersionAutoNumbering() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	updated, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions: []VersionInput{
			{Title: models.VersionTitleReleased, IsActive: true},
			{Title: models.VersionTitleInDevelopment},
			{Title: models.VersionTitleInDevelopment},
		},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Versions, 3)

	// Versions come back ordered by number descending.
	assert.True(s.T(), updated.Versions[0].Number.Equal(decimal.RequireFromString("1.20")))
	assert.True(s.T(), updated.Versions[1].Number.Equal(decimal.RequireFromString("1.10")))
	assert.True(s.T(), updated.Versions[2].Number.Equal(decimal.RequireFromString("1.00")))

	// The next auto-assigned number continues from the table-wide maximum.
	other := s.newListing(owner, "Телефон")
	updated, err = s.listings.Update(other.ID, owner, &UpdateListingRequest{
		Name:       other.Name,
		Price:      other.Price,
		CategoryID: other.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleInDevelopment}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Versions, 1)
	assert.True(s.T(), updated.Versions[0].Number.Equal(decimal.RequireFromString("1.30")))
}

func (s *ListingServiceSuite) TestVersionNumberBelowFloorRejected() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	low := decimal.RequireFromString("0.50")
	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased, Number: &low}},
	})

	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	var count int64
	s.db.Model(&models.Version{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *ListingServiceSuite) TestMultipleActiveVersionsRejected() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       "Ноутбук обновленный",
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions: []VersionInput{
			{Title: models.VersionTitleReleased, IsActive: true},
			{Title: models.VersionTitleInDevelopment, IsActive: true},
		},
	})

	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	// Nothing from the submission was committed.
	var reloaded models.Listing
	require.NoError(s.T(), s.db.First(&reloaded, listing.ID).Error)
	assert.Equal(s.T(), "Ноутбук", reloaded.Name)

	var count int64
	s.db.Model(&models.Version{}).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *ListingServiceSuite) TestDeletedRowStillCountsAsActive() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	updated, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased, IsActive: true}},
	})
	require.NoError(s.T(), err)
	existingID := updated.Versions[0].ID

	_, err = s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions: []VersionInput{
			{ID: &existingID, Title: models.VersionTitleReleased, IsActive: true, Delete: true},
			{Title: models.VersionTitleInDevelopment, IsActive: true},
		},
	})

	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)
}

func (s *ListingServiceSuite) TestReusedVersionNumberFailsValidation() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	taken := decimal.RequireFromString("2.00")
	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased, Number: &taken}},
	})
	require.NoError(s.T(), err)

	// Re-using a stored number is a validation failure, not a storage
	// conflict.
	_, err = s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       "Ноутбук обновленный",
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleInDevelopment, Number: &taken}},
	})
	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	// The field edits in the same submission rolled back with it.
	var reloaded models.Listing
	require.NoError(s.T(), s.db.First(&reloaded, listing.ID).Error)
	assert.Equal(s.T(), "Ноутбук", reloaded.Name)

	var versions int64
	s.db.Model(&models.Version{}).Count(&versions)
	assert.EqualValues(s.T(), 1, versions)
}

func (s *ListingServiceSuite) TestDuplicateNumbersInOneSubmissionRejected() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	taken := decimal.RequireFromString("2.00")
	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions: []VersionInput{
			{Title: models.VersionTitleReleased, Number: &taken},
			{Title: models.VersionTitleInDevelopment, Number: &taken},
		},
	})

	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	var versions int64
	s.db.Model(&models.Version{}).Count(&versions)
	assert.Zero(s.T(), versions)
}

func (s *ListingServiceSuite) TestDeletedRowFreesItsNumber() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	taken := decimal.RequireFromString("2.00")
	updated, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased, Number: &taken}},
	})
	require.NoError(s.T(), err)
	oldID := updated.Versions[0].ID

	// Deleting the holder and re-issuing its number in one submission is
	// legal.
	updated, err = s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions: []VersionInput{
			{ID: &oldID, Delete: true},
			{Title: models.VersionTitleInDevelopment, Number: &taken},
		},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Versions, 1)
	assert.True(s.T(), updated.Versions[0].Number.Equal(taken))
	assert.NotEqual(s.T(), oldID, updated.Versions[0].ID)
}

func (s *ListingServiceSuite) TestUpdateByStrangerMaskedAsNotFound() {
	owner := s.newUser("owner@example.com", nil)
	stranger := s.newUser("stranger@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	_, err := s.listings.Update(listing.ID, stranger, &UpdateListingRequest{
		Name:       "Чужая правка",
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
	})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ListingServiceSuite) TestNonStaffEditorAdoptsOwnership() {
	owner := s.newUser("owner@example.com", nil)
	editor := s.newUser("editor@example.com", func(u *models.User) {
		u.Permissions = []string{models.PermChangeListing}
	})
	listing := s.newListing(owner, "Ноутбук")

	updated, err := s.listings.Update(listing.ID, editor, &UpdateListingRequest{
		Name:       "Ноутбук обновленный",
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated.OwnerID)
	assert.Equal(s.T(), editor.ID, *updated.OwnerID)
}

func (s *ListingServiceSuite) TestStaffEditorKeepsOwner() {
	owner := s.newUser("owner@example.com", nil)
	moderator := s.newUser("moderator@example.com", func(u *models.User) {
		u.IsStaff = true
		u.Permissions = []string{models.PermChangeListing}
	})
	listing := s.newListing(owner, "Ноутбук")

	updated, err := s.listings.Update(listing.ID, moderator, &UpdateListingRequest{
		Name:       "Ноутбук исправленный",
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated.OwnerID)
	assert.Equal(s.T(), owner.ID, *updated.OwnerID)
}

func (s *ListingServiceSuite) TestConcurrentElevatedUpdates() {
	owner := s.newUser("owner@example.com", nil)
	first := s.newUser("first@example.com", func(u *models.User) {
		u.Permissions = []string{models.PermChangeListing}
	})
	second := s.newUser("second@example.com", func(u *models.User) {
		u.Permissions = []string{models.PermChangeListing}
	})
	listing := s.newListing(owner, "Ноутбук")

	var wg sync.WaitGroup
	for i, editor := range []*models.User{first, second} {
		wg.Add(1)
		go func(n int, actor *models.User) {
			defer wg.Done()
			_, err := s.listings.Update(listing.ID, actor, &UpdateListingRequest{
				Name:       fmt.Sprintf("Правка %d", n),
				Price:      listing.Price,
				CategoryID: listing.CategoryID,
			})
			assert.NoError(s.T(), err)
		}(i, editor)
	}
	wg.Wait()

	// Whichever update landed last owns the listing now.
	var reloaded models.Listing
	require.NoError(s.T(), s.db.First(&reloaded, listing.ID).Error)
	require.NotNil(s.T(), reloaded.OwnerID)
	assert.Contains(s.T(), []uuid.UUID{first.ID, second.ID}, *reloaded.OwnerID)
}

func (s *ListingServiceSuite) TestPublishRequiresPermission() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	// Even the owner cannot publish without the grant.
	_, err := s.listings.Publish(listing.ID, owner, true)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	moderator := s.newUser("moderator@example.com", func(u *models.User) {
		u.IsStaff = true
		u.Permissions = []string{models.PermSetPublished}
	})
	published, err := s.listings.Publish(listing.ID, moderator, true)
	require.NoError(s.T(), err)
	assert.True(s.T(), published.IsPublished)

	listings, total, err := s.listings.Search(utils.PaginationParams{Page: 1, Limit: 10, Sort: "published_at", Order: "desc"})
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, total)
	require.Len(s.T(), listings, 1)
	assert.Equal(s.T(), listing.ID, listings[0].ID)
}

func (s *ListingServiceSuite) TestDeleteByStrangerMaskedAsNotFound() {
	owner := s.newUser("owner@example.com", nil)
	stranger := s.newUser("stranger@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	err := s.listings.Delete(listing.ID, stranger)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	var count int64
	s.db.Model(&models.Listing{}).Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *ListingServiceSuite) TestDeleteByOwnerRemovesVersions() {
	owner := s.newUser("owner@example.com", nil)
	listing := s.newListing(owner, "Ноутбук")

	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased, IsActive: true}},
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.listings.Delete(listing.ID, owner))

	var listings, versions int64
	s.db.Model(&models.Listing{}).Count(&listings)
	s.db.Model(&models.Version{}).Count(&versions)
	assert.Zero(s.T(), listings)
	assert.Zero(s.T(), versions)
}

func (s *ListingServiceSuite) TestModerationQueue() {
	owner := s.newUser("owner@example.com", nil)
	s.newListing(owner, "Ноутбук")

	_, _, err := s.listings.ModerationQueue(owner, utils.PaginationParams{Page: 1, Limit: 10, Sort: "created_at", Order: "desc"})
	assert.ErrorIs(s.T(), err, ErrPermissionDenied)

	moderator := s.newUser("moderator@example.com", func(u *models.User) {
		u.Permissions = []string{models.PermSetPublished}
	})
	queue, total, err := s.listings.ModerationQueue(moderator, utils.PaginationParams{Page: 1, Limit: 10, Sort: "created_at", Order: "desc"})
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, total)
	assert.Len(s.T(), queue, 1)
}

func (s *ListingServiceSuite) TestCategoryDeleteCascades() {
	owner := s.newUser("owner@example.com", nil)
	admin := s.newUser("admin@example.com", func(u *models.User) {
		u.IsSuperuser = true
	})
	listing := s.newListing(owner, "Ноутбук")

	_, err := s.listings.Update(listing.ID, owner, &UpdateListingRequest{
		Name:       listing.Name,
		Price:      listing.Price,
		CategoryID: listing.CategoryID,
		Versions:   []VersionInput{{Title: models.VersionTitleReleased}},
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.categories.Delete(s.category.ID, admin))

	var listings, versions int64
	s.db.Model(&models.Listing{}).Count(&listings)
	s.db.Model(&models.Version{}).Count(&versions)
	assert.Zero(s.T(), listings)
	assert.Zero(s.T(), versions)
}

func (s *ListingServiceSuite) TestBlogViewCountIncrements() {
	author := s.newUser("author@example.com", nil)
	blog, err := s.blogs.Create(author, &CreateBlogRequest{
		Title:   "Новости сайта",
		Content: "Первый пост",
		Email:   "author@example.com",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "novosti-sajta", blog.Slug)

	for i := 0; i < 3; i++ {
		_, err = s.blogs.Get(blog.ID)
		require.NoError(s.T(), err)
	}

	var reloaded models.Blog
	require.NoError(s.T(), s.db.First(&reloaded, blog.ID).Error)
	assert.EqualValues(s.T(), 3, reloaded.ViewCount)
}

func (s *ListingServiceSuite) TestFeedbackCountryValidation() {
	_, err := s.feedback.Submit(&FeedbackRequest{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Country:   "Атлантида",
		Message:   "Отличный сайт",
	})
	var ve *ValidationError
	require.ErrorAs(s.T(), err, &ve)

	entry, err := s.feedback.Submit(&FeedbackRequest{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Message:   "Отличный сайт",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Россия", entry.Country)
}

func (s *ListingServiceSuite) TestLoginStampsLastLogin() {
	user := s.newUser("login@example.com", nil)
	require.Nil(s.T(), user.LastLoginAt)

	resp, err := s.auth.Login(&LoginRequest{Email: "login@example.com", Password: "password1"})
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), resp.AccessToken)

	var reloaded models.User
	require.NoError(s.T(), s.db.First(&reloaded, user.ID).Error)
	require.NotNil(s.T(), reloaded.LastLoginAt)
	assert.WithinDuration(s.T(), time.Now(), *reloaded.LastLoginAt, time.Minute)
}

func (s *ListingServiceSuite) TestResetPasswordUnknownEmailIsSilent() {
	err := s.auth.ResetPassword(&ResetPasswordRequest{Email: "nobody@example.com"})
	assert.NoError(s.T(), err)
}

func (s *ListingServiceSuite) TestResetPasswordReplacesPassword() {
	user := s.newUser("reset@example.com", nil)

	require.NoError(s.T(), s.auth.ResetPassword(&ResetPasswordRequest{Email: "reset@example.com"}))

	var reloaded models.User
	require.NoError(s.T(), s.db.First(&reloaded, user.ID).Error)
	assert.Error(s.T(), reloaded.CheckPassword("password1"))
}

func TestListingServiceSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceSuite))
}
