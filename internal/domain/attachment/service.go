package attachment

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"hostcalendar/internal/domain/calendar"

	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 3072

// BookingLookup returns a booking only when guestID owns it.
type BookingLookup interface {
	GuestBooking(ctx context.Context, guestID, bookingID int64) (*calendar.Booking, error)
}

type FileStore interface {
	Create(ctx context.Context, f *calendar.BookingFile) error
	GetForUploader(ctx context.Context, id string, uploaderID int64) (*calendar.BookingFile, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	bookings BookingLookup
	files    FileStore
	storage  *Storage
	maxSize  int64
}

func NewService(bookings BookingLookup, files FileStore, storage *Storage, maxSize int64) *Service {
	return &Service{bookings: bookings, files: files, storage: storage, maxSize: maxSize}
}

// Attach stores fh on disk and links it to the guest's booking.
func (s *Service) Attach(ctx context.Context, guestID, bookingID int64, fh *multipart.FileHeader) (*calendar.BookingFile, error) {
	if _, err := s.bookings.GuestBooking(ctx, guestID, bookingID); err != nil {
		return nil, err
	}
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mimeType, err := sniff(file)
	if err != nil {
		return nil, err
	}
	if _, ok := AllowedMimeTypes[mimeType]; !ok {
		return nil, ErrInvalidMimeType
	}

	stored, err := s.storage.Save(file, fh.Filename, mimeType)
	if err != nil {
		return nil, err
	}

	f := &calendar.BookingFile{
		ID:           stored.ID,
		BookingID:    bookingID,
		UploaderID:   guestID,
		OriginalName: fh.Filename,
		FilePath:     stored.RelPath,
		FileURL:      stored.URL,
		MimeType:     mimeType,
		Size:         fh.Size,
	}
	if err := s.files.Create(ctx, f); err != nil {
		_ = s.storage.Remove(stored.RelPath)
		return nil, fmt.Errorf("save file record: %w", err)
	}
	return f, nil
}

// Remove deletes a file the caller uploaded.
func (s *Service) Remove(ctx context.Context, uploaderID int64, fileID string) error {
	f, err := s.files.GetForUploader(ctx, fileID, uploaderID)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, f.ID); err != nil {
		return err
	}
	return s.storage.Remove(f.FilePath)
}

// sniff detects the content type from the file header and rewinds.
func sniff(f multipart.File) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	mimeType, _, _ := strings.Cut(mimetype.Detect(buf[:n]).String(), ";")
	return mimeType, nil
}
