package migration

import (
	"fmt"
	"log"

	"forkd/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Edit{}); err != nil {
		log.Fatalf("Error migrating edit database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Experiment{}); err != nil {
		log.Fatalf("Error migrating experiment database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Permission{}); err != nil {
		log.Fatalf("Error migrating permission database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
