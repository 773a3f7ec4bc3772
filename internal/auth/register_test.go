package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/internal/users"
	"github.com/angelmondragon/supplyhub-backend/pkg/db"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/dbtest"
	pkgmodels "github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data    map[string]*pkgmodels.User
	created *pkgmodels.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	user := dto.ToModel()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func newStubRegisterService(t *testing.T, repo *stubUserRepository) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner:       stubTxRunner{},
		PasswordConfig: testPasswordCfg,
		UsersFactory:   func(tx *gorm.DB) registerUserRepository { return repo },
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	repo := newStubUserRepository()
	svc := newStubRegisterService(t, repo)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Grace",
		LastName:  "Buyer",
		Email:     " Grace@Example.com ",
		Password:  "long-enough-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", dto.Email)
	assert.Equal(t, enums.UserTypeBuyer, dto.Type)

	require.NotNil(t, repo.created)
	ok, err := security.VerifyPassword("long-enough-pass", repo.created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepository()
	repo.data["taken@example.com"] = &pkgmodels.User{ID: uuid.New(), Email: "taken@example.com"}
	svc := newStubRegisterService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Dup",
		LastName:  "User",
		Email:     "taken@example.com",
		Password:  "long-enough-pass",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newStubRegisterService(t, newStubUserRepository())

	cases := []RegisterRequest{
		{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "short"},
		{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "1234567890"},
		{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "long-enough-pass", Type: "admin"},
		{FirstName: "A", LastName: "B", Email: " ", Password: "long-enough-pass"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "request %+v: %v", req, err)
	}
}

func TestRegisterPersistsShopAccountWithoutShop(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner:       db.NewFromConn(conn),
		PasswordConfig: testPasswordCfg,
	})
	require.NoError(t, err)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Sam",
		LastName:  "Supplier",
		Email:     "sam@acme.test",
		Password:  "long-enough-pass",
		Company:   "Acme",
		Type:      enums.UserTypeShop,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UserTypeShop, dto.Type)

	var shops int64
	require.NoError(t, conn.Model(&pkgmodels.Shop{}).Count(&shops).Error)
	assert.Zero(t, shops)

	_, err = svc.Register(context.Background(), RegisterRequest{
		FirstName: "Sam",
		LastName:  "Again",
		Email:     "SAM@acme.test",
		Password:  "long-enough-pass",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
