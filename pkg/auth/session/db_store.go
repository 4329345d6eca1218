package session

import (
	"context"
	"errors"
	"time"

	"github.com/mtsdigital/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// DBStore keeps sessions in the admin_sessions table.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (d *DBStore) Create(ctx context.Context, s Session) error {
	row := models.AdminSession{
		ID:        s.ID,
		AdminID:   s.AdminID,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
	}
	return d.db.WithContext(ctx).Create(&row).Error
}

func (d *DBStore) Get(ctx context.Context, id string) (*Session, error) {
	var row models.AdminSession
	err := d.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s := Session{
		ID:        row.ID,
		AdminID:   row.AdminID,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
	if s.Expired(d.now()) {
		_ = d.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (d *DBStore) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminSession{}).Error
}

func (d *DBStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	res := d.db.WithContext(ctx).
		Model(&models.AdminSession{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired removes every session whose expiry is before now.
func (d *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at <= ?", d.now().UTC()).Delete(&models.AdminSession{})
	return res.RowsAffected, res.Error
}
