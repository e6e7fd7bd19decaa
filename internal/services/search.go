package services

import (
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
)

// SearchResults groups the matches of a query per collection.
type SearchResults struct {
	Clients      []models.Client      `json:"clients"`
	Projects     []models.Project     `json:"projects"`
	Transactions []models.Transaction `json:"transactions"`
	Archives     []models.Archive     `json:"archives"`
}

// Search looks for a case-insensitive substring: clients by structured id
// or "nom prenom", projects by structured id or name, transactions by
// structured id, archives by archive id. A blank query matches nothing.
func (w *Workspace) Search(query string) SearchResults {
	res := SearchResults{
		Clients:      []models.Client{},
		Projects:     []models.Project{},
		Transactions: []models.Transaction{},
		Archives:     []models.Archive{},
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res
	}
	has := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, c := range w.clients {
		if has(c.StructuredID) || has(c.FullName()) {
			res.Clients = append(res.Clients, c)
		}
	}
	for _, p := range w.projects {
		if has(p.StructuredID) || has(p.Name) {
			res.Projects = append(res.Projects, p)
		}
	}
	for _, t := range w.transactions {
		if has(t.StructuredID) {
			res.Transactions = append(res.Transactions, t)
		}
	}
	for _, a := range w.archives {
		if has(a.ArchiveID) {
			a.HTMLContent = ""
			res.Archives = append(res.Archives, a)
		}
	}
	return res
}
