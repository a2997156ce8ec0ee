package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/aggregates/command"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/ingest"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/vendor"
	"github.com/cmdvault/cmdvault/pkg/composables"
	"github.com/cmdvault/cmdvault/pkg/eventbus"
)

// ErrMainTagVendorMismatch rejects an upload whose main tag belongs to a
// different vendor than the upload itself.
var ErrMainTagVendorMismatch = errors.New("main tag belongs to another vendor")

// MainTagRef is the upload's optional root. Exactly one of ID and Name may
// be set: ID points at an existing tag, Name asks for a root tag to be
// found or created under the vendor. Both zero means no main tag.
type MainTagRef struct {
	ID   *int64
	Name string
}

func (m MainTagRef) IsZero() bool {
	return m.ID == nil && strings.TrimSpace(m.Name) == ""
}

type IngestService struct {
	vendors   vendor.Repository
	tags      *TagService
	commands  command.Repository
	parser    *SheetParser
	publisher eventbus.EventBus
	inTx      func(context.Context, func(context.Context) error) error
}

func NewIngestService(
	vendors vendor.Repository,
	tags *TagService,
	commands command.Repository,
	parser *SheetParser,
	publisher eventbus.EventBus,
) *IngestService {
	return &IngestService{
		vendors:   vendors,
		tags:      tags,
		commands:  commands,
		parser:    parser,
		publisher: publisher,
		inTx:      composables.InTx,
	}
}

// Ingest drives a batch upload end-to-end inside a single transaction:
// parse, resolve tag paths, reconcile each row against the catalog under
// the override policy, and assemble the report. A failure at any point
// rolls the whole batch back; partial success is never exposed.
func (s *IngestService) Ingest(
	ctx context.Context,
	vendorID int64,
	mainTag MainTagRef,
	override bool,
	filename string,
	sheet io.Reader,
) (*ingest.Report, error) {
	var report *ingest.Report
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var err error
		report, err = s.ingest(txCtx, vendorID, mainTag, override, filename, sheet)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(ingest.CompletedEvent{
			VendorID:   vendorID,
			VendorName: report.VendorName,
			Override:   override,
			Report:     report,
		})
	}
	return report, nil
}

func (s *IngestService) ingest(
	ctx context.Context,
	vendorID int64,
	mainTag MainTagRef,
	override bool,
	filename string,
	sheet io.Reader,
) (*ingest.Report, error) {
	v, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	rootID, mainTagName, mainTagCreated, err := s.resolveMainTag(ctx, vendorID, mainTag)
	if err != nil {
		return nil, err
	}

	rows, parseErrs, err := s.parser.Parse(filename, sheet)
	if err != nil {
		return nil, err
	}

	report := ingest.NewReport(v.Name(), mainTagName)
	report.Summary.TotalCommandsInCSV = len(rows) + len(parseErrs)
	report.Summary.TotalTagsInCSV = countDistinctPaths(rows)
	if mainTagCreated != nil {
		report.AddCreatedTag(mainTagCreated.Name(), nil, ingest.StatusCreatedMainTag)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, item := range mergeByLine(rows, parseErrs) {
		if item.parseErr != nil {
			report.AddSkipped(
				fmt.Sprintf("line %d", item.parseErr.LineNo),
				fmt.Sprintf("line %d: %s", item.parseErr.LineNo, item.parseErr.Reason),
			)
			continue
		}
		if err := s.reconcileRow(ctx, vendorID, rootID, mainTagName, override, *item.row, seen, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// resolveMainTag returns the root tag id for path resolution, its display
// name, and the tag entity when the call created one by name.
func (s *IngestService) resolveMainTag(ctx context.Context, vendorID int64, mainTag MainTagRef) (*int64, string, *tag.Tag, error) {
	if mainTag.ID != nil {
		t, err := s.tags.GetByID(ctx, *mainTag.ID)
		if err != nil {
			return nil, "", nil, err
		}
		if t.VendorID() != vendorID {
			return nil, "", nil, ErrMainTagVendorMismatch
		}
		id := t.ID()
		return &id, t.Name(), nil, nil
	}

	name := tag.NormalizeName(mainTag.Name)
	if name == "" {
		return nil, "", nil, nil
	}
	leaf, created, err := s.tags.ResolvePath(ctx, vendorID, nil, []string{name})
	if err != nil {
		return nil, "", nil, err
	}
	id := leaf.ID()
	if len(created) > 0 {
		t := created[0].Tag
		return &id, leaf.Name(), &t, nil
	}
	return &id, leaf.Name(), nil, nil
}

func (s *IngestService) reconcileRow(
	ctx context.Context,
	vendorID int64,
	rootID *int64,
	mainTagName string,
	override bool,
	row ingest.Row,
	seen map[string]struct{},
	report *ingest.Report,
) error {
	if _, dup := seen[row.Command]; dup {
		report.AddSkipped(row.Command, ingest.ReasonDuplicateInUpload)
		return nil
	}
	seen[row.Command] = struct{}{}

	// Rows without a path attach to the main tag; without a main tag the
	// command keeps no tag (create) or its current tag (update).
	var (
		leafID   *int64
		leafName string
	)
	if len(row.TagPath) > 0 {
		leaf, created, err := s.tags.ResolvePath(ctx, vendorID, rootID, row.TagPath)
		if err != nil {
			return err
		}
		id := leaf.ID()
		leafID, leafName = &id, leaf.Name()
		for _, c := range created {
			report.AddCreatedTag(c.Tag.Name(), c.ParentName, ingest.StatusCreatedFromCmdTag)
		}
	} else if rootID != nil {
		leafID, leafName = rootID, mainTagName
	}

	existing, err := s.commands.FindByText(ctx, vendorID, row.Command)
	if errors.Is(err, command.ErrNotFound) {
		created, cerr := s.commands.Create(ctx, command.New(
			vendorID,
			row.Command,
			command.WithTagID(leafID),
			command.WithDescription(row.Description),
			command.WithExample(row.Example),
			command.WithVersion(row.Version),
		))
		if errors.Is(cerr, command.ErrDuplicate) {
			// Lost a create race with a concurrent upload; fall through
			// to the exists branch against the winner's row.
			existing, err = s.commands.FindByText(ctx, vendorID, row.Command)
			if err != nil {
				return err
			}
		} else if cerr != nil {
			return cerr
		} else {
			report.AddCreated(created.Text(), deref(created.Description()), displayTag(leafName))
			return nil
		}
	} else if err != nil {
		return err
	}

	if !override {
		report.AddSkipped(row.Command, ingest.ReasonAlreadyExists)
		return nil
	}

	tagID := leafID
	if tagID == nil {
		tagID = existing.TagID()
	}
	updated, err := s.commands.Update(ctx, existing.Overwritten(row.Description, row.Example, row.Version, tagID))
	if err != nil {
		return err
	}
	report.AddUpdated(updated.Text(), deref(updated.Description()), displayTag(leafName))
	return nil
}

// countDistinctPaths counts the distinct tag path prefixes the sheet names,
// whether or not they already exist in the catalog.
func countDistinctPaths(rows []ingest.Row) int {
	paths := make(map[string]struct{})
	for _, row := range rows {
		for i := range row.TagPath {
			paths[strings.Join(row.TagPath[:i+1], "/")] = struct{}{}
		}
	}
	return len(paths)
}

type lineItem struct {
	lineNo   int
	row      *ingest.Row
	parseErr *ingest.ParseError
}

// mergeByLine interleaves parsed rows and parse errors back into sheet
// order; both inputs are already ordered by line.
func mergeByLine(rows []ingest.Row, parseErrs []ingest.ParseError) []lineItem {
	items := make([]lineItem, 0, len(rows)+len(parseErrs))
	i, j := 0, 0
	for i < len(rows) || j < len(parseErrs) {
		if j >= len(parseErrs) || (i < len(rows) && rows[i].LineNo < parseErrs[j].LineNo) {
			items = append(items, lineItem{lineNo: rows[i].LineNo, row: &rows[i]})
			i++
		} else {
			items = append(items, lineItem{lineNo: parseErrs[j].LineNo, parseErr: &parseErrs[j]})
			j++
		}
	}
	return items
}

func displayTag(name string) string {
	if name == "" {
		return ingest.NoMainTagName
	}
	return name
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
