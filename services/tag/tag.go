package tag

import (
	"fmt"

	"foodgram-backend/models"
	"foodgram-backend/services/errs"

	"github.com/jinzhu/gorm"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Get(id uint) (models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("id = ?", id).First(&tag).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return tag, errs.ErrNotFound
		}
		return tag, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return tag, nil
}

// ByIDs loads the tags with the given ids, keyed by id.
func (s *TagService) ByIDs(ids []uint) (map[uint]models.Tag, error) {
	found := make(map[uint]models.Tag, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var tags []models.Tag
	if err := s.db.Where("id IN (?)", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to look up tags: %w", err)
	}
	for _, tag := range tags {
		found[tag.ID] = tag
	}
	return found, nil
}
