package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
)

const exportSheet = "Classifications"

var exportHeader = []any{
	"Index", "Filename", "Format", "Words", "Object Type", "Object Name",
	"Confidence", "Needs Review", "Tags", "Relationships", "Submission", "Errors",
}

// exportWorkbook writes one row per document of the session with its
// effective classification and approval outcome.
func exportWorkbook(ctx context.Context, path, sessionID string, result *domain.ApproveResult) error {
	sess, err := services.Sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	submitted := make(map[int]string)
	failed := make(map[int]string)
	if result != nil {
		for _, s := range result.Submissions {
			submitted[s.Index] = s.SubmissionID
		}
		for _, e := range result.Errors {
			failed[e.Index] = e.Message
		}
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // nothing to flush after SaveAs

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "L1", bold); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	for i, doc := range sess.Documents {
		row := []any{i, doc.Filename, doc.Format.String(), doc.WordCount}

		res, err := services.Sessions.Effective(ctx, sessionID, i)
		switch {
		case err == nil:
			row = append(row,
				res.ObjectType.String(), res.ObjectName, res.Confidence, res.NeedsReview,
				strings.Join(res.Tags, ", "), formatRelationships(res.SuggestedRelationships))
		case errors.Is(err, domain.ErrNotFound):
			row = append(row, "", "", "", "", "", "")
		default:
			return fmt.Errorf("export: %w", err)
		}

		errs := append([]string(nil), doc.Errors...)
		if msg, ok := failed[i]; ok {
			errs = append(errs, "approve: "+msg)
		}
		row = append(row, submitted[i], strings.Join(errs, "; "))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "F", "F", 28); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func formatRelationships(rels []domain.SuggestedRelationship) string {
	parts := make([]string, len(rels))
	for i, r := range rels {
		parts[i] = fmt.Sprintf("%s %s", r.RelationshipType, r.TargetName)
	}
	return strings.Join(parts, "; ")
}
