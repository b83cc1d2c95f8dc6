package contents

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshop_backend/internals/features/contents/dto"
	helper "workshop_backend/internals/helpers"
)

// SeedContentsFromJSON inserts the content blocks listed in filePath (an array of
// create requests). Blocks whose divId already exists are left untouched.
func SeedContentsFromJSON(db *gorm.DB, filePath string) (int64, error) {
	log.WithField("file", filePath).Info("reading content seed")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read content seed: %w", err)
	}

	var seeds []dto.CreateContentRequest
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("decode content seed: %w", err)
	}

	var inserted int64
	for i, s := range seeds {
		s.Normalize()
		if err := helper.Validator().Struct(s); err != nil {
			return inserted, fmt.Errorf("content seed #%d (%s): %w", i, s.DivID, err)
		}
		row := s.ToModel()
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_div_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return inserted, fmt.Errorf("insert content %s: %w", s.DivID, res.Error)
		}
		if res.RowsAffected == 0 {
			log.WithField("div_id", s.DivID).Debug("content block exists, skipped")
		}
		inserted += res.RowsAffected
	}
	return inserted, nil
}
