package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberService handles membership business logic
type MemberService struct {
	memberRepo repositories.MemberRepository
	audit      *AuditService
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, audit *AuditService) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		audit:      audit,
	}
}

// CreateMemberInput represents member registration input
type CreateMemberInput struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Phone   string `json:"phone,omitempty" validate:"max=20"`
	Address string `json:"address,omitempty"`
}

// Create registers a new member. The membership ID is generated server-side
// and the member starts active.
func (s *MemberService) Create(ctx context.Context, input *CreateMemberInput, performedBy string) (*models.Member, error) {
	log.Printf("👤 Registering member with email %s", input.Email)

	exists, err := s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	member := &models.Member{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		MembershipID: generateMembershipID(),
		Active:       true,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionCreate, models.AuditEntityMember, member.ID,
		"Registered member: "+member.Name+" ("+member.MembershipID+")", performedBy)

	log.Printf("✅ Member registered, ID: %d, membership: %s", member.ID, member.MembershipID)
	return member, nil
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByEmail gets a member by email
func (s *MemberService) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByMembershipID gets a member by membership ID
func (s *MemberService) GetByMembershipID(ctx context.Context, membershipID string) (*models.Member, error) {
	member, err := s.memberRepo.GetByMembershipID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// UpdateMemberInput represents member update input.
// Membership ID and the active flag are not updatable through this path.
type UpdateMemberInput struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Phone   string `json:"phone,omitempty" validate:"max=20"`
	Address string `json:"address,omitempty"`
}

// Update updates a member's contact details
func (s *MemberService) Update(ctx context.Context, id uint, input *UpdateMemberInput, performedBy string) (*models.Member, error) {
	log.Printf("👤 Updating member %d", id)

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	if member.Email != input.Email {
		exists, err := s.memberRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateEmail
		}
	}

	member.Name = input.Name
	member.Email = input.Email
	member.Phone = input.Phone
	member.Address = input.Address

	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionUpdate, models.AuditEntityMember, member.ID,
		"Updated member: "+member.Name, performedBy)

	log.Printf("✅ Member updated, ID: %d", id)
	return member, nil
}

// Deactivate flips a member inactive. Existing loans stay open; the member
// just cannot borrow again until reactivated. Deactivating twice is a no-op.
func (s *MemberService) Deactivate(ctx context.Context, id uint, performedBy string) (*models.Member, error) {
	log.Printf("👤 Deactivating member %d", id)

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	if !member.Active {
		return member, nil
	}

	member.Active = false
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionUpdate, models.AuditEntityMember, member.ID,
		"Deactivated member: "+member.Name, performedBy)

	log.Printf("✅ Member deactivated, ID: %d", id)
	return member, nil
}

// List lists members with filters and pagination
func (s *MemberService) List(ctx context.Context, filter *repositories.MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	return s.memberRepo.List(ctx, filter, offset, limit)
}

func generateMembershipID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "MEM-" + strings.ToUpper(raw[:8])
}
