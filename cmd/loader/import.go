package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reviewhub/database"
	"reviewhub/internal/httpapi/models"
)

// runImport loads every CSV file in dependency order. User rows carry integer
// ids in the CSV but uuid primary keys in the store, so an id map is built
// while loading users and consulted for review/comment authors.
func runImport(dataDir, databaseURL string) error {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := refuseNonEmpty(db); err != nil {
		return err
	}

	userIDs, err := importUsers(db, filepath.Join(dataDir, "users.csv"))
	if err != nil {
		return err
	}
	log.Printf("imported %d users", len(userIDs))

	if err := importCategories(db, filepath.Join(dataDir, "category.csv")); err != nil {
		return err
	}
	if err := importGenres(db, filepath.Join(dataDir, "genre.csv")); err != nil {
		return err
	}
	if err := importTitles(db, filepath.Join(dataDir, "titles.csv")); err != nil {
		return err
	}
	if err := importReviews(db, filepath.Join(dataDir, "review.csv"), userIDs); err != nil {
		return err
	}
	if err := importComments(db, filepath.Join(dataDir, "comments.csv"), userIDs); err != nil {
		return err
	}

	// The title/genre link table is written directly, outside the ORM path.
	if err := importTitleGenres(databaseURL, filepath.Join(dataDir, "genre_title.csv")); err != nil {
		return err
	}

	if err := resetSequences(db); err != nil {
		return err
	}

	log.Println("import complete")
	return nil
}

// refuseNonEmpty aborts when any target table already holds data. Reloading
// seed data requires dropping the database first.
func refuseNonEmpty(db *gorm.DB) error {
	checks := map[string]interface{}{
		"users":      &models.User{},
		"categories": &models.Category{},
		"genres":     &models.Genre{},
		"titles":     &models.Title{},
		"reviews":    &models.Review{},
		"comments":   &models.Comment{},
	}
	for table, model := range checks {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		if count > 0 {
			return fmt.Errorf("table %s already has %d rows; data already loaded, exiting", table, count)
		}
	}
	return nil
}

func readCSV(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
}

func importUsers(db *gorm.DB, path string) (map[string]string, error) {
	userIDs := make(map[string]string)
	err := readCSV(path, func(row map[string]string) error {
		user := models.User{
			ID:        uuid.New().String(),
			Username:  row["username"],
			Email:     row["email"],
			Role:      row["role"],
			Bio:       row["bio"],
			FirstName: row["first_name"],
			LastName:  row["last_name"],
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create user %s: %w", user.Username, err)
		}
		userIDs[row["id"]] = user.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

func importCategories(db *gorm.DB, path string) error {
	return readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("category id %q: %w", row["id"], err)
		}
		category := models.Category{ID: id, Name: row["name"], Slug: row["slug"]}
		return db.Create(&category).Error
	})
}

func importGenres(db *gorm.DB, path string) error {
	return readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("genre id %q: %w", row["id"], err)
		}
		genre := models.Genre{ID: id, Name: row["name"], Slug: row["slug"]}
		return db.Create(&genre).Error
	})
}

func importTitles(db *gorm.DB, path string) error {
	return readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("title id %q: %w", row["id"], err)
		}
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return fmt.Errorf("title year %q: %w", row["year"], err)
		}
		title := models.Title{ID: id, Name: row["name"], Year: year}
		if raw := row["category"]; raw != "" {
			categoryID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("title category %q: %w", raw, err)
			}
			title.CategoryID = &categoryID
		}
		return db.Create(&title).Error
	})
}

func importReviews(db *gorm.DB, path string, userIDs map[string]string) error {
	return readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("review id %q: %w", row["id"], err)
		}
		titleID, err := strconv.ParseInt(row["title_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("review title_id %q: %w", row["title_id"], err)
		}
		score, err := strconv.Atoi(row["score"])
		if err != nil {
			return fmt.Errorf("review score %q: %w", row["score"], err)
		}
		authorID, ok := userIDs[row["author"]]
		if !ok {
			return fmt.Errorf("review %d references unknown author %q", id, row["author"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return err
		}
		review := models.Review{
			ID:       id,
			TitleID:  titleID,
			AuthorID: authorID,
			Text:     row["text"],
			Score:    score,
			PubDate:  pubDate,
		}
		return db.Create(&review).Error
	})
}

func importComments(db *gorm.DB, path string, userIDs map[string]string) error {
	return readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("comment id %q: %w", row["id"], err)
		}
		reviewID, err := strconv.ParseInt(row["review_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("comment review_id %q: %w", row["review_id"], err)
		}
		authorID, ok := userIDs[row["author"]]
		if !ok {
			return fmt.Errorf("comment %d references unknown author %q", id, row["author"])
		}
		pubDate, err := parsePubDate(row["pub_date"])
		if err != nil {
			return err
		}
		comment := models.Comment{
			ID:       id,
			ReviewID: reviewID,
			AuthorID: authorID,
			Text:     row["text"],
			PubDate:  pubDate,
		}
		return db.Create(&comment).Error
	})
}

func parsePubDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("pub_date %q: %w", raw, err)
	}
	return t, nil
}

// importTitleGenres batches the link table rows through pgx directly.
func importTitleGenres(databaseURL, path string) error {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for link-table import: %w", err)
	}
	defer conn.Close(ctx)

	batch := &pgx.Batch{}
	count := 0
	err = readCSV(path, func(row map[string]string) error {
		id, err := strconv.ParseInt(row["id"], 10, 64)
		if err != nil {
			return fmt.Errorf("link id %q: %w", row["id"], err)
		}
		titleID, err := strconv.ParseInt(row["title_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("link title_id %q: %w", row["title_id"], err)
		}
		genreID, err := strconv.ParseInt(row["genre_id"], 10, 64)
		if err != nil {
			return fmt.Errorf("link genre_id %q: %w", row["genre_id"], err)
		}
		batch.Queue(
			"INSERT INTO title_genres (id, title_id, genre_id) VALUES ($1, $2, $3)",
			id, titleID, genreID,
		)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < count; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert title_genres row: %w", err)
		}
	}

	log.Printf("imported %d title-genre links", count)
	return nil
}

// resetSequences bumps the serial sequences past the explicit ids the CSVs
// carried, so the API can insert without key collisions.
func resetSequences(db *gorm.DB) error {
	for _, table := range []string{"categories", "genres", "titles", "reviews", "comments", "title_genres"} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("reset sequence for %s: %w", table, err)
		}
	}
	return nil
}
