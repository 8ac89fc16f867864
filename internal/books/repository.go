package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-ai/inkwell/pkg/pagination"
	"github.com/inkwell-ai/inkwell/pkg/repository"
	"github.com/inkwell-ai/inkwell/pkg/storage"
	"github.com/inkwell-ai/inkwell/workflow"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a book repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "books"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Book], error) {
	page.Normalize(r.pagination)

	where, args := listCriteria(page, filters)

	total, err := repository.Count(ctx, r.db, "SELECT COUNT(*) FROM books"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	pageSQL := fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		projection, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageSQL, args, scanBook)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func listCriteria(page pagination.PageRequest, filters Filters) (string, []any) {
	var clauses []string
	var args []any

	if filters.Status != nil {
		args = append(args, *filters.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if page.Search != nil {
		args = append(args, "%"+*page.Search+"%")
		clauses = append(clauses, fmt.Sprintf(
			"(topic ILIKE $%d OR title ILIKE $%d)", len(args), len(args),
		))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Book, error) {
	q := projection + " WHERE id = $1"

	b, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanBook)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Book, error) {
	if strings.TrimSpace(cmd.Topic) == "" {
		return nil, fmt.Errorf("%w: topic required", ErrInvalidInput)
	}

	id := uuid.New()
	state := workflow.NewState()
	draft := &workflow.Draft{}

	var seedKey *string
	if strings.TrimSpace(cmd.RawData) != "" {
		key := seedStorageKey(id)
		if err := r.storage.Upload(
			ctx, key,
			strings.NewReader(cmd.RawData),
			"text/plain",
		); err != nil {
			return nil, fmt.Errorf("archive seed input: %w", err)
		}
		seedKey = &key

		raw := cmd.RawData
		draft.RawData = &raw
		state.RecordCompletion(workflow.StepInputHandling)
	}

	stateJSON, draftJSON, err := marshalWorkflow(state, draft)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO books(id, topic, status, seed_key, workflow_state, draft)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, topic, title, status, seed_key, created_at, updated_at`

	insertArgs := []any{id, cmd.Topic, StatusDraft, seedKey, stateJSON, draftJSON}

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Book, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanBook)
	})

	if err != nil {
		if seedKey != nil {
			if delErr := r.storage.Delete(ctx, *seedKey); delErr != nil {
				r.logger.Warn("compensating seed delete failed", "key", *seedKey, "error", delErr)
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("book created", "id", b.ID, "topic", b.Topic)
	return &b, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	book, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, draft, err := r.LoadState(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM books WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if book.SeedKey != nil {
		if delErr := r.storage.Delete(ctx, *book.SeedKey); delErr != nil {
			r.logger.Warn("seed delete failed after DB delete", "key", *book.SeedKey, "error", delErr)
		}
	}
	if draft.ArtifactKey != nil {
		if delErr := r.storage.Delete(ctx, *draft.ArtifactKey); delErr != nil {
			r.logger.Warn("artifact delete failed after DB delete", "key", *draft.ArtifactKey, "error", delErr)
		}
	}

	r.logger.Info("book deleted", "id", id)
	return nil
}

func (r *repo) LoadState(ctx context.Context, id uuid.UUID) (*workflow.State, *workflow.Draft, error) {
	var stateJSON, draftJSON []byte

	q := "SELECT workflow_state, draft FROM books WHERE id = $1"
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&stateJSON, &draftJSON); err != nil {
		return nil, nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	state := workflow.NewState()
	if len(stateJSON) > 0 {
		if err := json.Unmarshal(stateJSON, state); err != nil {
			return nil, nil, fmt.Errorf("decode workflow state: %w", err)
		}
	}
	state.Normalize()

	draft := &workflow.Draft{}
	if len(draftJSON) > 0 {
		if err := json.Unmarshal(draftJSON, draft); err != nil {
			return nil, nil, fmt.Errorf("decode draft: %w", err)
		}
	}

	chapters, err := r.loadChapters(ctx, id)
	if err != nil {
		// fall back to the whole-draft chapter copy
		r.logger.Warn("chapter load failed, using draft fallback", "book", id, "error", err)
		return state, draft, nil
	}
	if len(chapters) > 0 {
		draft.Chapters = chapters
	}

	return state, draft, nil
}

func (r *repo) SaveState(ctx context.Context, id uuid.UUID, st *workflow.State, d *workflow.Draft) error {
	stateJSON, draftJSON, err := marshalWorkflow(st, d)
	if err != nil {
		return err
	}

	q := `
		UPDATE books
		SET workflow_state = $2, draft = $3, title = $4, status = $5, updated_at = now()
		WHERE id = $1`

	err = repository.ExecExpectOne(ctx, r.db, q, id, stateJSON, draftJSON, d.Title, deriveStatus(st))
	if err != nil {
		return fmt.Errorf("%w: save workflow state: %w", workflow.ErrPersistence, err)
	}

	return nil
}

func (r *repo) SaveChapter(ctx context.Context, id uuid.UUID, ch *workflow.Chapter) (*workflow.Chapter, error) {
	points, err := json.Marshal(ch.DataPoints)
	if err != nil {
		return nil, fmt.Errorf("%w: encode data points: %w", workflow.ErrPersistence, err)
	}

	chapterID := uuid.New()
	if ch.ID != nil {
		chapterID = *ch.ID
	}

	q := `
		INSERT INTO chapters(id, book_id, title, content, chapter_index, data_points)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (book_id, chapter_index)
		DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content,
			data_points = EXCLUDED.data_points, updated_at = now()
		RETURNING id`

	var storedID uuid.UUID
	err = r.db.
		QueryRowContext(ctx, q, chapterID, id, ch.Title, ch.Content, ch.Index, points).
		Scan(&storedID)
	if repository.IsForeignKeyViolation(err) {
		// the book was deleted while a run was in flight
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: save chapter %d: %w", workflow.ErrPersistence, ch.Index, err)
	}

	stored := *ch
	stored.ID = &storedID
	return &stored, nil
}

func (r *repo) DeleteChapters(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chapters WHERE book_id = $1", id); err != nil {
		return fmt.Errorf("%w: delete chapters: %w", workflow.ErrPersistence, err)
	}
	return nil
}

func (r *repo) loadChapters(ctx context.Context, id uuid.UUID) ([]workflow.Chapter, error) {
	q := `
		SELECT id, title, content, chapter_index, data_points
		FROM chapters
		WHERE book_id = $1
		ORDER BY chapter_index`

	return repository.QueryMany(ctx, r.db, q, []any{id}, func(s repository.Scanner) (workflow.Chapter, error) {
		var (
			ch     workflow.Chapter
			chID   uuid.UUID
			points []byte
		)
		if err := s.Scan(&chID, &ch.Title, &ch.Content, &ch.Index, &points); err != nil {
			return ch, err
		}
		ch.ID = &chID
		if err := json.Unmarshal(points, &ch.DataPoints); err != nil {
			return ch, fmt.Errorf("decode data points: %w", err)
		}
		return ch, nil
	})
}

func marshalWorkflow(st *workflow.State, d *workflow.Draft) ([]byte, []byte, error) {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return nil, nil, fmt.Errorf("encode workflow state: %w", err)
	}
	draftJSON, err := json.Marshal(d)
	if err != nil {
		return nil, nil, fmt.Errorf("encode draft: %w", err)
	}
	return stateJSON, draftJSON, nil
}

// deriveStatus maps workflow progress to a book status. Input handling alone
// does not count as generation; it completes at intake.
func deriveStatus(st *workflow.State) string {
	if st.Done() {
		return StatusComplete
	}
	for _, step := range st.Completed {
		if step != workflow.StepInputHandling {
			return StatusGenerating
		}
	}
	return StatusDraft
}

func seedStorageKey(id uuid.UUID) string {
	return fmt.Sprintf("books/%s/seed.txt", id)
}
