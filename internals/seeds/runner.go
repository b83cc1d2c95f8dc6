package seeds

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"workshop_backend/internals/seeds/contents"
)

// RunAllSeeds loads the optional seed files. Empty paths are skipped.
func RunAllSeeds(db *gorm.DB, contentsFile string) error {
	if contentsFile == "" {
		return nil
	}
	n, err := contents.SeedContentsFromJSON(db, contentsFile)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": contentsFile, "inserted": n}).Info("content blocks seeded")
	return nil
}
