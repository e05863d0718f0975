package impl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe/internal/domain/entity"
	domainerrors "cafe/internal/domain/errors"
	"cafe/internal/usecase"
)

func newTestUserService(store *fakeStore, publisher *fakePublisher, now time.Time) *userService {
	return &userService{
		txManager:      &fakeTxManager{store: store},
		passwordHasher: fakeHasher{},
		tokenService:   fakeTokenService{},
		eventPublisher: publisher,
		logger:         discardLogger(),
		now:            func() time.Time { return now },
	}
}

func seedUser(store *fakeStore, email string, roles entity.Roles) *entity.User {
	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hashed:secret",
		FirstName:    "Jo",
		LastName:     "Dupont",
		Roles:        roles,
		Status:       entity.AccountStatusActive,
		CreatedAt:    time.Now(),
	}
	store.users[user.ID] = user

	return user
}

func TestUserService_Register_ForcesRoleAndStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	out, err := svc.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Ada",
		LastName:  "Martin",
		Email:     "ada@example.com",
		Password:  "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.Roles{entity.RoleUser}, out.User.Roles)
	assert.Equal(t, entity.AccountStatusActive, out.User.Status)
	assert.False(t, out.User.IsAdmin())
	assert.Equal(t, "hashed:s3cret", out.User.PasswordHash)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
}

func TestUserService_Register_RejectsEmptyPassword(t *testing.T) {
	svc := newTestUserService(newFakeStore(), &fakePublisher{}, time.Now())

	_, err := svc.Register(context.Background(), usecase.RegisterInput{
		Email: "ada@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordRequired)
}

func TestUserService_Register_RejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	seedUser(store, "ada@example.com", entity.Roles{entity.RoleUser})
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	_, err := svc.Register(context.Background(), usecase.RegisterInput{
		Email:    "ada@example.com",
		Password: "s3cret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	out, err := svc.Login(context.Background(), usecase.LoginInput{Email: "jo@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+user.ID.String(), out.AccessToken)

	_, err = svc.Login(context.Background(), usecase.LoginInput{Email: "jo@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), usecase.LoginInput{Email: "ghost@example.com", Password: "secret"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_DeletedAccountIsRejected(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	user.SoftDelete(time.Now())
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	_, err := svc.Login(context.Background(), usecase.LoginInput{Email: user.Email, Password: "secret"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	newName := "Joanne"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, usecase.UpdateProfileInput{FirstName: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Joanne", updated.FirstName)
	assert.Equal(t, "Dupont", updated.LastName)
}

func TestUserService_DeleteAccount_Cascade(t *testing.T) {
	store := newFakeStore()
	deletedAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	whatsapp := "+33600000000"
	user.Whatsapp = &whatsapp
	user.Favorites = []uuid.UUID{uuid.New(), uuid.New()}

	pending := &entity.Order{ID: uuid.New(), OwnerID: user.ID, Status: entity.OrderStatusPending, CreatedAt: time.Now()}
	ready := &entity.Order{ID: uuid.New(), OwnerID: user.ID, Status: entity.OrderStatusReady, CreatedAt: time.Now()}
	collected := &entity.Order{ID: uuid.New(), OwnerID: user.ID, Status: entity.OrderStatusCollected, CreatedAt: time.Now()}
	store.orders[pending.ID] = pending
	store.orders[ready.ID] = ready
	store.orders[collected.ID] = collected

	publisher := &fakePublisher{}
	svc := newTestUserService(store, publisher, deletedAt)

	require.NoError(t, svc.DeleteAccount(context.Background(), usecase.Actor{ID: user.ID, Roles: user.Roles}, user.ID))

	got := store.users[user.ID]
	assert.Equal(t, entity.AccountStatusDeleted, got.Status)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, entity.AnonymizedName, got.FirstName)
	assert.Equal(t, entity.AnonymizedName, got.LastName)
	assert.Nil(t, got.Whatsapp)
	assert.Empty(t, got.Favorites)
	assert.Equal(t, fmt.Sprintf("deleted+%s+20260314150926@example.invalid", user.ID), got.Email)

	// Non-terminal orders are cancelled, the collected one is untouched.
	assert.Equal(t, entity.OrderStatusCancelled, store.orders[pending.ID].Status)
	assert.Equal(t, entity.OrderStatusCancelled, store.orders[ready.ID].Status)
	assert.Equal(t, entity.OrderStatusCollected, store.orders[collected.ID].Status)

	events := publisher.published()
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, entity.OrderStatusCancelled.String(), event.NewStatus)
		assert.Equal(t, user.ID.String(), event.OwnerID)
	}
}

func TestUserService_DeleteAccount_Idempotent(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	publisher := &fakePublisher{}
	svc := newTestUserService(store, publisher, time.Now())
	actor := usecase.Actor{ID: user.ID, Roles: user.Roles}

	require.NoError(t, svc.DeleteAccount(context.Background(), actor, user.ID))
	emailAfterFirst := store.users[user.ID].Email

	require.NoError(t, svc.DeleteAccount(context.Background(), actor, user.ID))
	assert.Equal(t, emailAfterFirst, store.users[user.ID].Email)
	assert.Len(t, publisher.published(), 0)
}

func TestUserService_DeleteAccount_Authorization(t *testing.T) {
	store := newFakeStore()
	target := seedUser(store, "target@example.com", entity.Roles{entity.RoleUser})
	other := seedUser(store, "other@example.com", entity.Roles{entity.RoleUser})
	admin := seedUser(store, "admin@example.com", entity.Roles{entity.RoleAdmin})
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	err := svc.DeleteAccount(context.Background(), usecase.Actor{ID: other.ID, Roles: other.Roles}, target.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Equal(t, entity.AccountStatusActive, store.users[target.ID].Status)

	err = svc.DeleteAccount(context.Background(), usecase.Actor{ID: admin.ID, Roles: admin.Roles}, target.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountStatusDeleted, store.users[target.ID].Status)
}

func TestUserService_AdminUpdateUser_ChangesRoles(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "jo@example.com", entity.Roles{entity.RoleUser})
	svc := newTestUserService(store, &fakePublisher{}, time.Now())

	roles := []string{"user", "admin"}
	updated, err := svc.AdminUpdateUser(context.Background(), user.ID, usecase.AdminUpdateUserInput{Roles: &roles})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())
}
