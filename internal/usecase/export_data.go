package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
)

// ExportVersion is the document version written by ExportData and accepted
// by ImportData.
const ExportVersion = "1.0"

// ExportDocument is the portable backup format. Field names and the
// millisecond lastSync encoding are part of the wire format and must not
// change without bumping the version.
type ExportDocument struct {
	ExportedAt     string                 `json:"exportedAt"`
	Version        string                 `json:"version"`
	Tasks          []domain.Task          `json:"tasks"`
	PendingChanges []domain.PendingChange `json:"pendingChanges"`
	LastSync       int64                  `json:"lastSync"`
}

// ExportDataOutput contains the serialized backup.
type ExportDataOutput struct {
	Document ExportDocument
	JSON     []byte
}

// ExportData serializes the full local store state, pending changes included,
// so an un-synced device can still be backed up without loss.
type ExportData struct {
	local domain.LocalStore
	clock domain.Clock
}

// NewExportData creates a new ExportData use case.
func NewExportData(local domain.LocalStore, clock domain.Clock) *ExportData {
	return &ExportData{local: local, clock: clock}
}

// Execute builds and serializes the backup document.
func (uc *ExportData) Execute(_ context.Context) (*ExportDataOutput, error) {
	tasks := uc.local.Tasks()
	changes := uc.local.PendingChanges()
	if tasks == nil {
		tasks = []domain.Task{}
	}
	if changes == nil {
		changes = []domain.PendingChange{}
	}
	// A nil tag slice serializes as null; the document format requires an
	// array, so importers (ours included) would reject the task.
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}

	var lastSync int64
	if t := uc.local.LastSync(); !t.IsZero() {
		lastSync = t.UnixMilli()
	}

	doc := ExportDocument{
		Tasks:          tasks,
		PendingChanges: changes,
		LastSync:       lastSync,
		ExportedAt:     uc.clock.Now().UTC().Format(time.RFC3339),
		Version:        ExportVersion,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export document: %w", err)
	}
	return &ExportDataOutput{Document: doc, JSON: data}, nil
}
