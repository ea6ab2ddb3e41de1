package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/fwojciec/linkcrawl"
)

// Compile-time interface verification.
var _ linkcrawl.ArticleService = (*ArticleService)(nil)

// ArticleService implements linkcrawl.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashArticle computes xxHash over the article's content fields and returns
// a hex string. Re-extractions with unchanged content produce the same hash.
func hashArticle(a *linkcrawl.Article) string {
	h := xxhash.Sum64String(a.Title + "\x00" + a.Summary + "\x00" + a.Author + "\x00" + a.PublishedAt)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// UpsertArticles stores the batch, keyed by URL. An article seen before
// replaces its stored fields but keeps its original row identity. Articles
// whose content hash matches the stored row are skipped entirely, so
// re-extractions with unchanged content preserve the original stored_at.
func (s *ArticleService) UpsertArticles(ctx context.Context, articles []*linkcrawl.Article) error {
	storedAt := time.Now().UTC().Format(time.RFC3339)

	for _, a := range articles {
		if err := a.Validate(); err != nil {
			return err
		}

		hash := hashArticle(a)

		var storedHash string
		err := s.db.QueryRowContext(ctx,
			"SELECT content_hash FROM articles WHERE url = ?", a.URL,
		).Scan(&storedHash)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if err == nil && storedHash == hash {
			continue
		}

		extra := "{}"
		if len(a.Extra) > 0 {
			data, err := json.Marshal(a.Extra)
			if err != nil {
				return fmt.Errorf("failed to encode extra fields: %w", err)
			}
			extra = string(data)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO articles (id, url, title, summary, author, published_at, extracted_at, source, extra, content_hash, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(url) DO UPDATE SET
				title = excluded.title,
				summary = excluded.summary,
				author = excluded.author,
				published_at = excluded.published_at,
				extracted_at = excluded.extracted_at,
				source = excluded.source,
				extra = excluded.extra,
				content_hash = excluded.content_hash,
				stored_at = excluded.stored_at
		`, uuid.New().String(), a.URL, a.Title, a.Summary, a.Author, a.PublishedAt,
			a.ExtractedAt, a.Source, extra, hashArticle(a), storedAt)
		if err != nil {
			return err
		}
	}

	return nil
}

// FindArticles retrieves stored articles matching the filter, newest first.
// Articles without a publication timestamp sort after those with one.
func (s *ArticleService) FindArticles(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT url, title, summary, author, published_at, extracted_at, source, extra FROM articles WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY published_at = '' ASC, CAST(published_at AS INTEGER) DESC, stored_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*linkcrawl.Article
	for rows.Next() {
		var a linkcrawl.Article
		var extra string

		if err := rows.Scan(&a.URL, &a.Title, &a.Summary, &a.Author,
			&a.PublishedAt, &a.ExtractedAt, &a.Source, &extra); err != nil {
			return nil, err
		}

		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &a.Extra); err != nil {
				return nil, fmt.Errorf("failed to decode extra fields: %w", err)
			}
		}

		articles = append(articles, &a)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article by URL.
func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return linkcrawl.Errorf(linkcrawl.ENOTFOUND, "article not found")
	}

	return nil
}
