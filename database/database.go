package database

import (
	"fmt"
	"time"

	"foodgram-backend/models"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

// DB is the process-wide connection pool, opened by InitDatabasePool.
var DB *gorm.DB

// InitDatabasePool opens the pool described by the database config section and
// migrates the schema. It is a no-op when the pool is already open.
func InitDatabasePool(config structs.EnvironmentModel) error {
	if DB != nil {
		if err := DB.DB().Ping(); err == nil {
			return nil
		}
	}

	db, err := Open(config)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open returns a new pool and migrates the schema.
func Open(config structs.EnvironmentModel) (*gorm.DB, error) {
	dsn, err := DSN(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(config.Database.Client, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.Database.MaxIdle > 0 {
		db.DB().SetMaxIdleConns(int(config.Database.MaxIdle))
	}
	if config.Database.MaxOpenConn > 0 {
		db.DB().SetMaxOpenConns(int(config.Database.MaxOpenConn))
	}
	if lifetime, err := time.ParseDuration(config.Database.MaxLifeTime); err == nil {
		db.DB().SetConnMaxLifetime(lifetime)
	}
	db.LogMode(config.Database.LogEnable == 1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the connection string for the configured dialect.
func DSN(config structs.EnvironmentModel) (string, error) {
	c := config.Database
	switch c.Client {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.User, c.Password, c.Host, c.Port, c.Db)
		if c.Params != "" {
			dsn += "?" + c.Params
		} else {
			dsn += "?charset=utf8mb4&parseTime=True&loc=UTC"
		}
		return dsn, nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s", c.Host, c.Port, c.User, c.Db, c.Password)
		if c.Params != "" {
			dsn += " " + c.Params
		} else {
			dsn += " sslmode=disable"
		}
		return dsn, nil
	case "sqlite3":
		return c.Db, nil
	default:
		return "", fmt.Errorf("unsupported database client %q", c.Client)
	}
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.FavoriteRecipe{},
		&models.ShoppingCart{},
		&models.ActivityLog{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to auto-migrate schema: %w", err)
	}
	return nil
}

// Close releases the shared pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
