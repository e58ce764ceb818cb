package ports

import "github.com/velstream/recurly-export-cli/internal/domain"

// RowSink appends rows to the output target, writing a header first when the
// target does not exist yet.
type RowSink interface {
	Write(rows []domain.Row) error
}
