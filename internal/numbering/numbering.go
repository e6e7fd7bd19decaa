// Package numbering computes structured business identifiers such as
// CL-25-03 or TR-25-P-25-CL-25-01-01-004.
//
// An identifier is "<Tag>-<YY>-[<parent>-]<sequence>". Sequences are
// independent per (tag, year, parent) scope and restart at 1 each year
// because no existing id carries the new year's prefix.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
)

// Kind describes one family of identifiers.
type Kind struct {
	Tag   string
	Width int
}

var (
	Client      = Kind{Tag: "CL", Width: 2}
	Project     = Kind{Tag: "P", Width: 2}
	Transaction = Kind{Tag: "TR", Width: 3}
	Invoice     = Kind{Tag: string(models.ArchiveInvoice), Width: 3}
	Receipt     = Kind{Tag: string(models.ArchiveReceipt), Width: 3}
)

// ForArchive returns the kind used to number archives of type t.
func ForArchive(t models.ArchiveType) Kind {
	if t == models.ArchiveReceipt {
		return Receipt
	}
	return Invoice
}

// Result is the outcome of a scan.
type Result struct {
	ID string
	// Max is the highest sequence found in scope, 0 when none.
	Max int
	// Matched counts ids that carried the prefix.
	Matched int
	// Skipped counts ids that carried the prefix but ended in a
	// non-numeric segment. Such legacy ids are ignored, not rejected.
	Skipped int
}

// YearAA returns the two-digit year of t.
func YearAA(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// Prefix builds "<Tag>-<YY>-" or "<Tag>-<YY>-<parent>-".
func Prefix(k Kind, yy, parent string) string {
	if parent == "" {
		return k.Tag + "-" + yy + "-"
	}
	return k.Tag + "-" + yy + "-" + parent + "-"
}

// Next returns the identifier following the highest sequence among existing
// ids in the (kind, yy, parent) scope. Prefix matching is exact and
// case-sensitive. A sequence wider than the kind's width is kept as is, so
// CL-25-100 follows CL-25-99.
func Next(k Kind, yy, parent string, existing []string) Result {
	prefix := Prefix(k, yy, parent)
	var res Result
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		res.Matched++
		seq, ok := trailingSequence(id)
		if !ok {
			res.Skipped++
			continue
		}
		if seq > res.Max {
			res.Max = seq
		}
	}
	res.ID = prefix + fmt.Sprintf("%0*d", k.Width, res.Max+1)
	return res
}

// trailingSequence parses the segment after the last '-' as a base-10
// sequence number. Only ASCII digits are accepted.
func trailingSequence(id string) (int, bool) {
	seg := id[strings.LastIndexByte(id, '-')+1:]
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ClientID returns the next client identifier for year yy.
func ClientID(yy string, clients []models.Client) Result {
	ids := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.StructuredID
	}
	return Next(Client, yy, "", ids)
}

// ProjectID returns the next project identifier for the given client.
func ProjectID(yy, clientSID string, projects []models.Project) Result {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.StructuredID
	}
	return Next(Project, yy, clientSID, ids)
}

// TransactionID returns the next transaction identifier for the given project.
func TransactionID(yy, projectSID string, txs []models.Transaction) Result {
	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.StructuredID
	}
	return Next(Transaction, yy, projectSID, ids)
}

// ArchiveID returns the next archive identifier of type t for the given
// project. Invoice and receipt sequences are independent of each other and
// of transaction numbering.
func ArchiveID(t models.ArchiveType, yy, projectSID string, archives []models.Archive) Result {
	ids := make([]string, len(archives))
	for i, a := range archives {
		ids[i] = a.ArchiveID
	}
	return Next(ForArchive(t), yy, projectSID, ids)
}

// Placeholder is the id printed on a document previewed without a
// generated archive id.
func Placeholder(t models.ArchiveType, yy, projectSID string) string {
	return Prefix(ForArchive(t), yy, projectSID) + "TEMP"
}
