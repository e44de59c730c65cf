package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	repo "github.com/oksasatya/recruitment-accounts/internal/domain/repository"
)

// UserService serves the profile of an already authenticated user.
type UserService struct {
	Repo   repo.UserRepository
	Files  FileStore
	Index  ProfileIndex
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, files FileStore, index ProfileIndex, logger *logrus.Logger) *UserService {
	if index == nil {
		index = nopIndex{}
	}
	return &UserService{Repo: users, Files: files, Index: index, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

// UpdateProfile applies the non-nil fields of in.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.Profile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !in.Apply(u) {
		return u.Profile(), nil
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

// UploadPhoto stores an image and records its URL as the profile photo.
func (s *UserService) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.Profile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedFile
	}
	return s.upload(ctx, userID, "photos", r, filename, contentType, func(u *entity.User, url string) { u.Photo = url })
}

// UploadResume stores a PDF and records its URL as the profile resume.
func (s *UserService) UploadResume(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.Profile, error) {
	if contentType != "application/pdf" {
		return nil, ErrUnsupportedFile
	}
	return s.upload(ctx, userID, "resumes", r, filename, contentType, func(u *entity.User, url string) { u.Resume = url })
}

// Search looks profiles up by free text; size is clamped to 1..50.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.Profile, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := s.Index.Search(ctx, strings.TrimSpace(q), size)
	if err != nil {
		return nil, s.storeFailure("search profiles", err)
	}
	return out, nil
}

func (s *UserService) upload(ctx context.Context, userID, folder string, r io.Reader, filename, contentType string, set func(*entity.User, string)) (*entity.Profile, error) {
	if s.Files == nil {
		return nil, ErrUnavailable
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := folder + "/" + userID + "/" + uuid.NewString() + ext
	url, err := s.Files.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, s.storeFailure("upload "+folder, err)
	}
	set(u, url)
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u.Profile(), nil
}

func (s *UserService) load(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.storeFailure("load user", err)
	}
	return u, nil
}

func (s *UserService) save(ctx context.Context, u *entity.User) error {
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.storeFailure("update user", err)
	}
	if err := s.Index.Index(ctx, u.Profile()); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index profile failed")
	}
	return nil
}

func (s *UserService) storeFailure(op string, err error) error {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("op", op).Error("profile operation failed")
	}
	return wrap(ErrStoreFailure, err)
}
