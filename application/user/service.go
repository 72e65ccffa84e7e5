package user

import (
	"context"
	"errors"

	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// ApplicationService User application service - reads and upserts users
type ApplicationService struct {
	userRepo user.Repository
}

// NewApplicationService Create user application service
func NewApplicationService(userRepo user.Repository) (*ApplicationService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository is required")
	}
	return &ApplicationService{userRepo: userRepo}, nil
}

// SaveUserRequest body of a user upsert; the id comes from the path
type SaveUserRequest struct {
	Email string `json:"email"`
}

// GetUser found is false when the user does not exist
func (s *ApplicationService) GetUser(ctx context.Context, userID string) (*user.User, bool, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *ApplicationService) ListUsers(ctx context.Context, page, size int) (*shared.Page[*user.User], error) {
	return s.userRepo.List(ctx, page, size)
}

func (s *ApplicationService) QueryUsers(ctx context.Context, filter *user.QueryFilter, page, size int) (*shared.Page[*user.User], error) {
	return s.userRepo.Query(ctx, filter, page, size)
}

// SaveUser normalizes the email and upserts the user
func (s *ApplicationService) SaveUser(ctx context.Context, userID string, req SaveUserRequest) (*user.User, error) {
	u, err := user.NewUser(userID, req.Email)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Save(ctx, u)
}
