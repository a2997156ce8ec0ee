package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence/models"
	"github.com/cmdvault/cmdvault/pkg/composables"
	"github.com/cmdvault/cmdvault/pkg/mapping"
)

const commandFindQuery = `
	SELECT c.id, c.vendor_id, c.platform_id, c.tag_id, c.command,
	       c.description, c.example, c.version, c.created_at, c.updated_at
	FROM commands c`

const commandJoinedQuery = `
	SELECT c.id, c.vendor_id, c.platform_id, c.tag_id, c.command,
	       c.description, c.example, c.version, c.created_at, c.updated_at,
	       v.name, p.name, t.name
	FROM commands c
	JOIN vendors v ON v.id = c.vendor_id
	LEFT JOIN platforms p ON p.id = c.platform_id
	LEFT JOIN tags t ON t.id = c.tag_id`

type CommandRepository struct{}

func NewCommandRepository() command.Repository {
	return &CommandRepository{}
}

func (r *CommandRepository) buildFilters(params *command.FindParams) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if params.Search != "" {
		add("c.command ILIKE '%%' || $%d || '%%'", escapeLike(params.Search))
	}
	if params.VendorName != "" {
		add("v.name = $%d", params.VendorName)
	}
	if params.PlatformName != "" {
		add("p.name = $%d", params.PlatformName)
	}
	if params.TagName != "" {
		add("t.name = $%d", params.TagName)
	}
	if params.Version != "" {
		add("c.version = $%d", params.Version)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so a search for "100%" matches
// the literal text instead of acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func (r *CommandRepository) GetPaginated(ctx context.Context, params *command.FindParams) ([]command.WithNames, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	filters, args := r.buildFilters(params)

	countQuery := `
		SELECT COUNT(*)
		FROM commands c
		JOIN vendors v ON v.id = c.vendor_id
		LEFT JOIN platforms p ON p.id = c.platform_id
		LEFT JOIN tags t ON t.id = c.tag_id` + filters
	var total int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count commands")
	}

	query := commandJoinedQuery + filters + " ORDER BY c.id"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to query commands")
	}
	defer rows.Close()

	commands := make([]command.WithNames, 0)
	for rows.Next() {
		var m models.CommandWithNames
		if err := rows.Scan(
			&m.ID,
			&m.VendorID,
			&m.PlatformID,
			&m.TagID,
			&m.Command.Command,
			&m.Description,
			&m.Example,
			&m.Version,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.VendorName,
			&m.PlatformName,
			&m.TagName,
		); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan command row")
		}
		commands = append(commands, toDomainCommandWithNames(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "row iteration error")
	}
	return commands, total, nil
}

func (r *CommandRepository) GetWithNamesByID(ctx context.Context, id int64) (command.WithNames, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return command.WithNames{}, err
	}

	var m models.CommandWithNames
	if err := tx.QueryRow(ctx, commandJoinedQuery+" WHERE c.id = $1", id).Scan(
		&m.ID,
		&m.VendorID,
		&m.PlatformID,
		&m.TagID,
		&m.Command.Command,
		&m.Description,
		&m.Example,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.VendorName,
		&m.PlatformName,
		&m.TagName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return command.WithNames{}, command.ErrNotFound
		}
		return command.WithNames{}, errors.Wrap(err, "failed to query command")
	}
	return toDomainCommandWithNames(&m), nil
}

func (r *CommandRepository) GetByID(ctx context.Context, id int64) (command.Command, error) {
	commands, err := r.queryCommands(ctx, commandFindQuery+" WHERE c.id = $1", id)
	if err != nil {
		return command.Command{}, err
	}
	if len(commands) == 0 {
		return command.Command{}, command.ErrNotFound
	}
	return commands[0], nil
}

func (r *CommandRepository) FindByText(ctx context.Context, vendorID int64, text string) (command.Command, error) {
	commands, err := r.queryCommands(ctx, commandFindQuery+" WHERE c.vendor_id = $1 AND c.command = $2", vendorID, text)
	if err != nil {
		return command.Command{}, err
	}
	if len(commands) == 0 {
		return command.Command{}, command.ErrNotFound
	}
	return commands[0], nil
}

func (r *CommandRepository) Create(ctx context.Context, c command.Command) (command.Command, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return command.Command{}, err
	}

	query := `
		INSERT INTO commands (vendor_id, platform_id, tag_id, command, description, example, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(
		ctx,
		query,
		c.VendorID(),
		mapping.PointerToSQLNullInt64(c.PlatformID()),
		mapping.PointerToSQLNullInt64(c.TagID()),
		c.Text(),
		mapping.PointerToSQLNullString(c.Description()),
		mapping.PointerToSQLNullString(c.Example()),
		mapping.PointerToSQLNullString(c.Version()),
	).Scan(&id); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return command.Command{}, command.ErrDuplicate
		}
		if isPgError(err, pgForeignKeyViolation) {
			return command.Command{}, command.ErrBadReference
		}
		return command.Command{}, errors.Wrap(err, "failed to insert command")
	}
	return r.GetByID(ctx, id)
}

func (r *CommandRepository) Update(ctx context.Context, c command.Command) (command.Command, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return command.Command{}, err
	}

	query := `
		UPDATE commands
		SET platform_id = $1, tag_id = $2, command = $3, description = $4,
		    example = $5, version = $6, updated_at = now()
		WHERE id = $7
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(
		ctx,
		query,
		mapping.PointerToSQLNullInt64(c.PlatformID()),
		mapping.PointerToSQLNullInt64(c.TagID()),
		c.Text(),
		mapping.PointerToSQLNullString(c.Description()),
		mapping.PointerToSQLNullString(c.Example()),
		mapping.PointerToSQLNullString(c.Version()),
		c.ID(),
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return command.Command{}, command.ErrNotFound
		}
		if isPgError(err, pgUniqueViolation) {
			return command.Command{}, command.ErrDuplicate
		}
		if isPgError(err, pgForeignKeyViolation) {
			return command.Command{}, command.ErrBadReference
		}
		return command.Command{}, errors.Wrap(err, "failed to update command")
	}
	return r.GetByID(ctx, id)
}

func (r *CommandRepository) queryCommands(ctx context.Context, query string, args ...interface{}) ([]command.Command, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query commands")
	}
	defer rows.Close()

	var commands []command.Command
	for rows.Next() {
		var m models.Command
		if err := rows.Scan(
			&m.ID,
			&m.VendorID,
			&m.PlatformID,
			&m.TagID,
			&m.Command,
			&m.Description,
			&m.Example,
			&m.Version,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan command row")
		}
		commands = append(commands, toDomainCommand(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return commands, nil
}
