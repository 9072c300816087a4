package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management-service/internal/domain"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
	repo "github.com/oksasatya/user-management-service/internal/domain/repository"
)

var ErrAvatarStorageDisabled = errors.New("avatar storage not configured")

// EventPublisher emits change events. Publish must not block and never fails the caller.
type EventPublisher interface {
	Publish(ev entity.UserEvent)
}

// AvatarStore uploads an avatar image and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (string, error)
}

type Service struct {
	Repo    repo.UserRepository
	Events  EventPublisher
	Avatars AvatarStore
	Logger  *logrus.Logger

	newEventID func() string
	now        func() time.Time
}

func NewService(repo repo.UserRepository, events EventPublisher, avatars AvatarStore, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:       repo,
		Events:     events,
		Avatars:    avatars,
		Logger:     logger,
		newEventID: uuid.NewString,
		now:        time.Now,
	}
}

// UserInput is a validated create or update request.
// Status is optional; every other field is applied as given.
type UserInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	Country    string
	PostalCode string
	Role       entity.UserRole
	Status     *entity.UserStatus
	Bio        string
	AvatarURL  string
}

// UserStats holds live counts per status and per role.
type UserStats struct {
	ByStatus map[entity.UserStatus]int64
	ByRole   map[entity.UserRole]int64
}

func (s *Service) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	s.Logger.WithField("email", in.Email).Info("creating user")

	exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.DuplicateEmail(in.Email)
	}

	u := &entity.User{Status: entity.StatusActive}
	applyInput(u, in)
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user created")

	s.emit(entity.EventUserCreated, u)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	s.Logger.WithField("user_id", id).Debug("fetching user")
	return s.Repo.FindByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context, p repo.PageRequest) (PageResult[entity.User], error) {
	s.Logger.WithFields(logrus.Fields{"page": p.Page, "size": p.Size}).Debug("listing users")
	return s.page(ctx, repo.UserFilter{}, p)
}

// Update overwrites every field of the stored user with in. Status is kept when in.Status is nil.
func (s *Service) Update(ctx context.Context, id int64, in UserInput) (*entity.User, error) {
	s.Logger.WithField("user_id", id).Info("updating user")

	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(u.Email, in.Email) {
		exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.DuplicateEmail(in.Email)
		}
	}

	applyInput(u, in)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user updated")

	s.emit(entity.EventUserUpdated, u)
	return u, nil
}

// ChangeStatus sets only the status of a user.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status entity.UserStatus) (*entity.User, error) {
	s.Logger.WithFields(logrus.Fields{"user_id": id, "status": status}).Info("changing user status")

	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = status
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.emit(entity.EventUserStatusChanged, u)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.Logger.WithField("user_id", id).Info("deleting user")

	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")

	s.emit(entity.EventUserDeleted, u)
	return nil
}

// UploadAvatar stores the image and points the user's avatar at it.
func (s *Service) UploadAvatar(ctx context.Context, id int64, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrAvatarStorageDisabled
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, id, r, filename, contentType)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("avatar upload failed")
		return nil, err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.emit(entity.EventUserUpdated, u)
	return u, nil
}

func (s *Service) Search(ctx context.Context, term string, p repo.PageRequest) (PageResult[entity.User], error) {
	s.Logger.WithField("term", term).Debug("searching users")
	users, total, err := s.Repo.Search(ctx, term, p)
	if err != nil {
		return PageResult[entity.User]{}, err
	}
	return NewPageResult(users, total, p), nil
}

func (s *Service) FilterByRole(ctx context.Context, role entity.UserRole, p repo.PageRequest) (PageResult[entity.User], error) {
	return s.page(ctx, repo.UserFilter{Role: &role}, p)
}

func (s *Service) FilterByStatus(ctx context.Context, status entity.UserStatus, p repo.PageRequest) (PageResult[entity.User], error) {
	return s.page(ctx, repo.UserFilter{Status: &status}, p)
}

func (s *Service) FilterByRoleAndStatus(ctx context.Context, role entity.UserRole, status entity.UserStatus, p repo.PageRequest) (PageResult[entity.User], error) {
	return s.page(ctx, repo.UserFilter{Role: &role, Status: &status}, p)
}

func (s *Service) FilterByCity(ctx context.Context, city string) ([]entity.User, error) {
	return s.Repo.FindAll(ctx, repo.UserFilter{City: &city})
}

func (s *Service) FilterByCountry(ctx context.Context, country string) ([]entity.User, error) {
	return s.Repo.FindAll(ctx, repo.UserFilter{Country: &country})
}

func (s *Service) CountByStatus(ctx context.Context, status entity.UserStatus) (int64, error) {
	return s.Repo.Count(ctx, repo.UserFilter{Status: &status})
}

func (s *Service) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	return s.Repo.Count(ctx, repo.UserFilter{Role: &role})
}

// Stats counts users for every status and every role.
func (s *Service) Stats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{
		ByStatus: make(map[entity.UserStatus]int64),
		ByRole:   make(map[entity.UserRole]int64),
	}
	for _, st := range entity.AllUserStatuses() {
		n, err := s.CountByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		stats.ByStatus[st] = n
	}
	for _, r := range entity.AllUserRoles() {
		n, err := s.CountByRole(ctx, r)
		if err != nil {
			return nil, err
		}
		stats.ByRole[r] = n
	}
	return stats, nil
}

func (s *Service) page(ctx context.Context, f repo.UserFilter, p repo.PageRequest) (PageResult[entity.User], error) {
	users, total, err := s.Repo.FindPage(ctx, f, p)
	if err != nil {
		return PageResult[entity.User]{}, err
	}
	return NewPageResult(users, total, p), nil
}

func (s *Service) emit(t entity.EventType, u *entity.User) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(entity.NewUserEvent(s.newEventID(), t, u, s.now().UTC()))
}

func applyInput(u *entity.User, in UserInput) {
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = in.Email
	u.Phone = in.Phone
	u.Address = in.Address
	u.City = in.City
	u.Country = in.Country
	u.PostalCode = in.PostalCode
	u.Role = in.Role
	if in.Status != nil {
		u.Status = *in.Status
	}
	u.Bio = in.Bio
	u.AvatarURL = in.AvatarURL
}
