package contacts

import (
	"context"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists delivery contacts. Every query is scoped to the owning user.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var list []models.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// FindForUser returns gorm.ErrRecordNotFound when the contact does not exist or belongs to someone else.
func (r *Repository) FindForUser(ctx context.Context, userID, contactID uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *Repository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(contact).Error
}

// UpdateForUser returns the number of rows touched. Zero means the contact is not the caller's.
func (r *Repository) UpdateForUser(ctx context.Context, userID, contactID uuid.UUID, columns map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", contactID, userID).
		Updates(columns)
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Contact{})
	return res.RowsAffected, res.Error
}
