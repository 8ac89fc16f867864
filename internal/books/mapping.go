package books

import (
	"github.com/inkwell-ai/inkwell/pkg/repository"
)

const projection = `
	SELECT id, topic, title, status, seed_key, created_at, updated_at
	FROM books`

func scanBook(s repository.Scanner) (Book, error) {
	var b Book
	err := s.Scan(
		&b.ID,
		&b.Topic,
		&b.Title,
		&b.Status,
		&b.SeedKey,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
