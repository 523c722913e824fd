package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/zachgliebs/VinylRecorder/model"
)

// mysqlErrDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlErrDuplicateEntry = 1062

// AlbumRepository defines the catalog database operations.
type AlbumRepository interface {
	// CreateAlbum inserts a new album and returns its id.
	// Returns model.ErrBarcodeConflict if the barcode is already in use.
	CreateAlbum(ctx context.Context, album *model.Album) (int64, error)

	// GetAlbumByID returns the album with the given id, or (nil, nil) if absent.
	GetAlbumByID(ctx context.Context, id int64) (*model.Album, error)

	// GetAllAlbums returns every album in creation order.
	GetAllAlbums(ctx context.Context) ([]*model.Album, error)

	// DeleteAlbum removes an album. Deleting a missing album is a no-op;
	// sessions referencing the album are removed by the cascade constraint.
	DeleteAlbum(ctx context.Context, id int64) error

	// GetAlbumByBarcode returns the album with the given barcode, or
	// (nil, nil) when no album matches.
	GetAlbumByBarcode(ctx context.Context, barcode string) (*model.Album, error)
}

// MySQLAlbumRepository is the MySQL implementation of AlbumRepository.
type MySQLAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new MySQL album repository instance.
func NewMySQLAlbumRepository(db *sql.DB) *MySQLAlbumRepository {
	return &MySQLAlbumRepository{db: db}
}

// CreateAlbum inserts a new album.
func (r *MySQLAlbumRepository) CreateAlbum(ctx context.Context, album *model.Album) (int64, error) {
	query := `
		INSERT INTO albums (title, artist, cover_url, barcode)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		album.Title,
		album.Artist,
		album.CoverURL,
		album.Barcode,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return 0, model.ErrBarcodeConflict
		}
		return 0, fmt.Errorf("failed to insert album: %w", err)
	}

	return result.LastInsertId()
}

// GetAlbumByID returns the album with the given id.
func (r *MySQLAlbumRepository) GetAlbumByID(ctx context.Context, id int64) (*model.Album, error) {
	query := `
		SELECT album_id, title, artist, cover_url, barcode, created_on
		FROM albums
		WHERE album_id = ?
	`

	album := &model.Album{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&album.ID,
		&album.Title,
		&album.Artist,
		&album.CoverURL,
		&album.Barcode,
		&album.CreatedOn,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get album %d: %w", id, err)
	}

	return album, nil
}

// GetAllAlbums returns every album in creation order.
func (r *MySQLAlbumRepository) GetAllAlbums(ctx context.Context) ([]*model.Album, error) {
	query := `
		SELECT album_id, title, artist, cover_url, barcode, created_on
		FROM albums
		ORDER BY album_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*model.Album
	for rows.Next() {
		album := &model.Album{}
		err := rows.Scan(
			&album.ID,
			&album.Title,
			&album.Artist,
			&album.CoverURL,
			&album.Barcode,
			&album.CreatedOn,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		albums = append(albums, album)
	}

	return albums, rows.Err()
}

// DeleteAlbum removes an album; the FK cascade removes its play sessions.
func (r *MySQLAlbumRepository) DeleteAlbum(ctx context.Context, id int64) error {
	query := `DELETE FROM albums WHERE album_id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete album %d: %w", id, err)
	}
	return nil
}

// GetAlbumByBarcode returns the album with the given barcode.
func (r *MySQLAlbumRepository) GetAlbumByBarcode(ctx context.Context, barcode string) (*model.Album, error) {
	query := `
		SELECT album_id, title, artist, cover_url, barcode, created_on
		FROM albums
		WHERE barcode = ?
	`

	album := &model.Album{}
	err := r.db.QueryRowContext(ctx, query, barcode).Scan(
		&album.ID,
		&album.Title,
		&album.Artist,
		&album.CoverURL,
		&album.Barcode,
		&album.CreatedOn,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get album by barcode: %w", err)
	}

	return album, nil
}
