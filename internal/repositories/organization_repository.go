package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uint) (*models.Organization, error)
	List(ctx context.Context, plan pagination.Plan) (pagination.Page[models.Organization], error)
}

type postgresOrganizationRepository struct {
	db *gorm.DB
}

func NewPostgresOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &postgresOrganizationRepository{db: db}
}

func (r *postgresOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Organization{}).Where("email = ? OR uid = ?", org.Email, org.UID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	if err := db.Create(org).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *postgresOrganizationRepository) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &org, nil
}

func (r *postgresOrganizationRepository) List(ctx context.Context, plan pagination.Plan) (pagination.Page[models.Organization], error) {
	l := listing{
		name:     "organizations",
		idColumn: "organizations.id",
		base: func(ctx context.Context) *gorm.DB {
			return r.db.WithContext(ctx).Model(&models.Organization{})
		},
	}
	return readPage(ctx, l, plan, func(o models.Organization) uint { return o.ID })
}
