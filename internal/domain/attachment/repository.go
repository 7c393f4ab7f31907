package attachment

import (
	"context"
	"errors"

	"hostcalendar/internal/domain/calendar"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, f *calendar.BookingFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// GetForUploader matches id and uploader in one query.
func (r *Repository) GetForUploader(ctx context.Context, id string, uploaderID int64) (*calendar.BookingFile, error) {
	var f calendar.BookingFile
	err := r.db.WithContext(ctx).Where("id = ? AND uploader_id = ?", id, uploaderID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&calendar.BookingFile{}).Error
}

// Paths returns the stored path of every recorded file.
func (r *Repository) Paths(ctx context.Context) (map[string]bool, error) {
	var paths []string
	if err := r.db.WithContext(ctx).Model(&calendar.BookingFile{}).Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = true
	}
	return out, nil
}
