// Package export turns aggregation reports into documents. The aggregation
// core knows nothing about file formats; renderers consume its nested
// bucket structure and decide how to lay it out.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nursyahid/dapur-ledger/internal/aggregate"
)

// Meta carries the report-level labels a renderer needs.
type Meta struct {
	Title       string
	PeriodName  string
	GeneratedAt time.Time
}

// Renderer writes a report document and returns where it ended up: a file
// path for local formats, a URL for hosted ones.
type Renderer interface {
	Render(ctx context.Context, report *aggregate.Report, meta Meta) (string, error)
}

// Filename builds the conventional export name,
// Laporan_Penjualan_<PeriodName>_<YYYY-MM-DD>.<ext>. Existing consumers key
// off this pattern, so it is a compatibility contract.
func Filename(periodName string, date time.Time, ext string) string {
	name := strings.Join(strings.Fields(strings.TrimSpace(periodName)), "_")
	if name == "" {
		name = "Semua"
	}
	return fmt.Sprintf("Laporan_Penjualan_%s_%s.%s", name, date.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
