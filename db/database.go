package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/zachgliebs/VinylRecorder/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createAlbumsTable(); err != nil {
		return err
	}
	if err := createPlaySessionsTable(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createAlbumsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS albums (
		album_id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		cover_url VARCHAR(767) DEFAULT 'default-cover.jpg',
		barcode VARCHAR(64) UNIQUE,
		created_on TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create albums table: %w", err)
	}
	log.Println("Albums table initialized successfully (or already exists).")
	return nil
}

func createPlaySessionsTable() error {
	// played_on/finished_on hold RFC3339 strings; duration is computed at
	// read time, never stored. finished_on IS NULL means the session is
	// still open.
	query := `
	CREATE TABLE IF NOT EXISTS play_sessions (
		play_id INT AUTO_INCREMENT PRIMARY KEY,
		album_id INT NOT NULL,
		played_on VARCHAR(40) NOT NULL,
		finished_on VARCHAR(40) DEFAULT NULL,
		CONSTRAINT fk_album_sessions FOREIGN KEY (album_id) REFERENCES albums(album_id) ON DELETE CASCADE
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create play_sessions table: %w", err)
	}
	log.Println("Play sessions table initialized successfully (or already exists).")
	return nil
}
