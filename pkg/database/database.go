package database

import (
	"fmt"
	"log"

	"pixelpals_backend/internal/config"
	"pixelpals_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Game{},
		&model.Platform{},
		&model.Friendship{},
		&model.Match{},
		&model.Message{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCatalogs(db)

	return db, nil
}

// seedCatalogs inserts the default game and platform catalogs on first run.
func seedCatalogs(db *gorm.DB) {
	var gameCount int64
	db.Model(&model.Game{}).Count(&gameCount)
	if gameCount == 0 {
		defaultGames := []model.Game{
			{Name: "League of Legends", Genre: "MOBA"},
			{Name: "Valorant", Genre: "FPS", Featured: true},
			{Name: "Fortnite", Genre: "Battle Royale", Featured: true},
			{Name: "Overwatch 2", Genre: "FPS"},
			{Name: "Call of Duty: Warzone", Genre: "FPS", Featured: true},
			{Name: "Among Us", Genre: "Party"},
			{Name: "Dota 2", Genre: "MOBA"},
			{Name: "CS2", Genre: "FPS", Featured: true},
			{Name: "Apex Legends", Genre: "Battle Royale", Featured: true},
			{Name: "Minecraft", Genre: "Sandbox"},
			{Name: "Rocket League", Genre: "Sports"},
			{Name: "World of Warcraft", Genre: "MMORPG"},
		}
		for _, g := range defaultGames {
			db.Create(&g)
		}
	}

	var platformCount int64
	db.Model(&model.Platform{}).Count(&platformCount)
	if platformCount == 0 {
		defaultPlatforms := []model.Platform{
			{Name: "PC"},
			{Name: "PlayStation"},
			{Name: "Xbox"},
			{Name: "Nintendo Switch"},
			{Name: "Mobile"},
		}
		for _, p := range defaultPlatforms {
			db.Create(&p)
		}
	}
}
