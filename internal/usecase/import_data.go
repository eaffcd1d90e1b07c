package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/totodo-app/totodo/internal/domain"
)

//go:embed import_schema.json
var importSchemaJSON string

var importSchema = jsonschema.MustCompileString("import_schema.json", importSchemaJSON)

// ImportDataInput contains the backup document to restore.
type ImportDataInput struct {
	JSON []byte
}

// ImportDataOutput reports what the merge did.
type ImportDataOutput struct {
	Imported int // Tasks appended
	Skipped  int // Tasks already present locally, kept untouched
}

// ImportData restores a backup document into the local store. The merge is
// additive and keyed by id: tasks already present locally win over the
// imported copies, and nothing is written unless the whole document is valid.
type ImportData struct {
	local  domain.LocalStore
	logger domain.Logger
}

// NewImportData creates a new ImportData use case.
func NewImportData(local domain.LocalStore, logger domain.Logger) *ImportData {
	return &ImportData{local: local, logger: logger}
}

// Execute validates, parses and merges the document. Any validation failure
// leaves the local store untouched.
func (uc *ImportData) Execute(_ context.Context, in ImportDataInput) (*ImportDataOutput, error) {
	dec := json.NewDecoder(bytes.NewReader(in.JSON))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if err := importSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}

	var doc ExportDocument
	if err := json.Unmarshal(in.JSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	if doc.Version != ExportVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", domain.ErrInvalidImport, doc.Version)
	}

	incoming := make([]domain.Task, 0, len(doc.Tasks))
	for i := range doc.Tasks {
		t := doc.Tasks[i]
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", domain.ErrInvalidImport, t.ID, err)
		}
		incoming = append(incoming, t)
	}

	existing := uc.local.Tasks()
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}

	merged := existing
	out := &ImportDataOutput{}
	for _, t := range incoming {
		if seen[t.ID] {
			out.Skipped++
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
		out.Imported++
	}

	if err := uc.local.SaveTasks(merged); err != nil {
		return nil, fmt.Errorf("save imported tasks: %w", err)
	}
	uc.logger.Info("import", fmt.Sprintf("imported %d tasks, skipped %d duplicates", out.Imported, out.Skipped))

	return out, nil
}
