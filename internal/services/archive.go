package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/documents"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/numbering"
)

// Draft is a generated document waiting to be archived.
type Draft struct {
	Type                models.ArchiveType `json:"type"`
	ArchiveID           string             `json:"id"`
	ProjectID           string             `json:"project_id"`
	ProjectStructuredID string             `json:"project_structured_id"`
	Content             string             `json:"content"`
}

// PrepareDocument generates an invoice or receipt for a project and keeps
// it as the user's pending document. Nothing is written to the store.
func (w *Workspace) PrepareDocument(ctx context.Context, t models.ArchiveType, projectID string, user auth.CurrentUser) (Draft, error) {
	if !t.Valid() {
		return Draft{}, fmt.Errorf("%w: %q", documents.ErrUnknownType, t)
	}
	company, err := w.company.Get(ctx)
	if err != nil {
		return Draft{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	project, ok := w.findProject(projectID)
	if !ok {
		return Draft{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	var client *models.Client
	if c, ok := w.findClient(project.ClientID); ok {
		client = &c
	} else {
		w.log.Warn().Str("project", project.StructuredID).Str("client", project.ClientID).Msg("client missing from snapshot")
	}
	res := numbering.ArchiveID(t, w.yearAA(), project.StructuredID, w.archives)
	w.traceID("archive", res)

	doc, err := w.synth.Generate(t, documents.Input{
		Project:      project,
		Client:       client,
		Transactions: w.transactions,
		ArchiveID:    res.ID,
		User:         user,
		Company:      company,
	})
	if err != nil {
		return Draft{}, err
	}
	d := Draft{
		Type:                t,
		ArchiveID:           doc.ID,
		ProjectID:           project.ID,
		ProjectStructuredID: project.StructuredID,
		Content:             doc.Content,
	}
	if user.IsLoggedIn {
		w.drafts[user.ID] = d
	}
	return d, nil
}

// PendingDraft returns the document the user generated last.
func (w *Workspace) PendingDraft(userID uint) (Draft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.drafts[userID]
	return d, ok
}

// SaveArchive persists the user's pending document. It refuses to store a
// second archive with an archive id already present in the snapshot.
func (w *Workspace) SaveArchive(ctx context.Context, userID uint) (models.Archive, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.drafts[userID]
	if !ok {
		return models.Archive{}, ErrNoDraft
	}
	if slices.ContainsFunc(w.archives, func(a models.Archive) bool { return a.ArchiveID == d.ArchiveID }) {
		return models.Archive{}, fmt.Errorf("%s: %w", d.ArchiveID, ErrArchiveExists)
	}
	a := models.Archive{
		ArchiveID:           d.ArchiveID,
		Type:                d.Type,
		ProjectID:           d.ProjectID,
		ProjectStructuredID: d.ProjectStructuredID,
		HTMLContent:         d.Content,
		ArchivedAt:          w.clock().UTC(),
	}
	if _, err := w.store.Archives.Insert(ctx, &a); err != nil {
		return models.Archive{}, err
	}
	w.archives = slices.Insert(w.archives, 0, a)
	delete(w.drafts, userID)
	w.log.Info().Str("archive", a.ArchiveID).Uint("user", userID).Msg("document archived")
	return a, nil
}
